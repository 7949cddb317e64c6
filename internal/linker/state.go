// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import "fmt"

// Phase is one stage of a linking run. Phases advance strictly
// linearly; an out-of-order transition is a pipeline bug, not a data
// condition, and panics immediately.
type Phase int

const (
	PhaseItemsReady Phase = iota
	PhaseEntityTagged
	PhaseCandidateGrouped
	PhaseStoriesMerged
	PhaseStoriesFinal
)

func (p Phase) String() string {
	switch p {
	case PhaseItemsReady:
		return "items_ready"
	case PhaseEntityTagged:
		return "entity_tagged"
	case PhaseCandidateGrouped:
		return "candidate_grouped"
	case PhaseStoriesMerged:
		return "stories_merged"
	case PhaseStoriesFinal:
		return "stories_final"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// run is the audit trail of a single linking run's phase progression.
// Even an empty batch walks all four transitions, keeping the contract
// uniform regardless of payload size.
type run struct {
	phase Phase
}

// advance moves the run to the next phase. Skipping, re-entering,
// reversing, or leaving the terminal phase panics: it means the
// pipeline invoked its stages out of sequence.
func (r *run) advance(to Phase) {
	if to != r.phase+1 || to > PhaseStoriesFinal {
		panic(fmt.Sprintf("linker: out-of-order phase transition %s -> %s", r.phase, to))
	}
	r.phase = to
}
