package types

// Entity is one configured organization, researcher, or institution the
// matcher tags records with. Declaration order matters: it breaks score
// ties and feeds fallback-ID derivation, so configs are ordered lists,
// never maps.
type Entity struct {
	// ID is the stable entity identifier (e.g. "openai").
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Keywords are the primary match terms.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Aliases are secondary match terms (former names, abbreviations).
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// PreferLinks optionally overrides the link-type precedence used
	// for primary-link selection on stories matching this entity.
	PreferLinks []string `json:"prefer_links,omitempty" yaml:"prefer_links,omitempty"`
}

// LinkerConfig holds the linking-run settings.
type LinkerConfig struct {
	// Entities is the ordered entity registry.
	Entities []Entity `json:"entities" yaml:"entities"`

	// LinkPreference is the link-type precedence for primary-link
	// selection. Empty means the default order.
	LinkPreference []string `json:"link_preference,omitempty" yaml:"link_preference,omitempty"`
}

// DefaultLinkPreference is the link-type precedence used when the
// configuration does not supply one.
var DefaultLinkPreference = []string{"official", "arxiv", "github", "huggingface", "paper", "blog"}

// StoreConfig holds settings for the SQLite record store.
type StoreConfig struct {
	// DataDir is the base directory for the store (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// SnapshotConfig holds settings for snapshot output.
type SnapshotConfig struct {
	// OutputDir is the directory snapshot JSON files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}
