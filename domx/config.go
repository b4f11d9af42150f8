package domx

// Config is the parser configuration surface, built through functional
// Options.
type Config struct {
	PreserveSpace        bool
	PreserveComment      bool
	PreserveCdata        bool
	PreserveDtdStructure bool
	DocumentName         string

	// XML-only knobs, except ShowWarnings, which also applies in HTML mode.
	AllowMissingNamespaces           bool
	ShowWarnings                     bool
	AllowDefaultNamespaceBindings    bool
	EnsureUniqueNamespacedAttributes bool
}

// Option mutates a Config during construction.
type Option func(*Config)

// defaultConfig holds the documented defaults for every knob.
func defaultConfig() *Config {
	return &Config{
		PreserveSpace:                    true,
		PreserveComment:                  true,
		PreserveCdata:                    true,
		PreserveDtdStructure:             false,
		DocumentName:                     "Document",
		AllowMissingNamespaces:           false,
		ShowWarnings:                     true,
		AllowDefaultNamespaceBindings:    true,
		EnsureUniqueNamespacedAttributes: true,
	}
}

// WithPreserveSpace toggles whether whitespace-only text nodes inside
// element content are kept.
func WithPreserveSpace(v bool) Option { return func(c *Config) { c.PreserveSpace = v } }

// WithPreserveComment toggles whether comment nodes are attached to the tree.
func WithPreserveComment(v bool) Option { return func(c *Config) { c.PreserveComment = v } }

// WithPreserveCdata toggles whether CDATA text nodes are attached to the tree.
func WithPreserveCdata(v bool) Option { return func(c *Config) { c.PreserveCdata = v } }

// WithPreserveDtdStructure toggles whether the DTD node keeps its full
// captured sequence (true) or only the doctype name (false).
func WithPreserveDtdStructure(v bool) Option { return func(c *Config) { c.PreserveDtdStructure = v } }

// WithDocumentName sets the root's display name.
func WithDocumentName(name string) Option { return func(c *Config) { c.DocumentName = name } }

// AllowMissingNamespaces downgrades unresolved-namespace errors to a silent
// skip. XML mode only.
func AllowMissingNamespaces(v bool) Option { return func(c *Config) { c.AllowMissingNamespaces = v } }

// ShowWarnings toggles whether reserved-prefix/whitespace warnings are
// recorded at all.
func ShowWarnings(v bool) Option { return func(c *Config) { c.ShowWarnings = v } }

// AllowDefaultNamespaceBindings toggles whether an in-scope default
// namespace binds unprefixed elements. XML mode only.
func AllowDefaultNamespaceBindings(v bool) Option {
	return func(c *Config) { c.AllowDefaultNamespaceBindings = v }
}

// EnsureUniqueNamespacedAttributes toggles duplicate expanded-name
// detection across an element's attributes. XML mode only.
func EnsureUniqueNamespacedAttributes(v bool) Option {
	return func(c *Config) { c.EnsureUniqueNamespacedAttributes = v }
}
