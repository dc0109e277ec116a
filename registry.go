package jsonschema

import (
	"regexp"

	"github.com/remexre/json-schema/cache"
)

// validatorKind discriminates the Validator variants.
type validatorKind int

const (
	// validatorAnything matches every value (the "true" schema).
	validatorAnything validatorKind = iota
	// validatorNothing matches no value (the "false" schema).
	validatorNothing
	// validatorConditions matches when every condition holds.
	validatorConditions
	// validatorReference defers entirely to another node.
	validatorReference
)

// validator is the compiled validation logic of one schema node.
type validator struct {
	kind       validatorKind
	conditions []Condition // validatorConditions, sorted by priority
	ref        string      // validatorReference target URI
}

// SchemaNode is one compiled unit of validation logic, addressed by URI.
// Nodes are owned exclusively by the Registry and immutable once inserted;
// everything else refers to them by URI.
type SchemaNode struct {
	Title       string
	Description string

	validator validator
}

// Conditions returns the node's ordered condition list. It is nil unless
// the node is a condition validator.
func (n *SchemaNode) Conditions() []Condition { return n.validator.conditions }

// Registry is the URI-keyed store owning all compiled schema nodes. It is
// created empty (or pre-seeded with the metaschema) and grows only through
// Compile; entries are replaced on recompilation and never deleted.
//
// A Registry takes no locks. Compile requires exclusive access; Validate is
// read-only and side-effect-free, so concurrent validations are safe as
// long as no Compile runs at the same time.
type Registry struct {
	opts    Options
	nodes   map[string]*SchemaNode
	regexps *cache.Cache[string, *regexp.Regexp]
	metrics *Metrics

	// metaURI is set once the bundled metaschema has been bootstrapped.
	metaURI string
}

// New creates an empty Registry. With WithMetaschemaCheck the registry is
// pre-seeded with the bundled draft-06 metaschema and every document later
// submitted to Compile is validated against it first.
func New(opts ...Option) *Registry {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	r := &Registry{
		opts:    options,
		nodes:   make(map[string]*SchemaNode),
		regexps: cache.New[string, *regexp.Regexp](options.RegexCacheSize),
		metrics: NewMetrics(),
	}
	if options.MetaschemaCheck {
		if _, err := r.AddMetaschema(); err != nil {
			// The metaschema is bundled and covered by tests; failing to
			// compile it is a build defect, not a runtime condition.
			panic("jsonschema: bundled metaschema failed to compile: " + err.Error())
		}
	}
	return r
}

// Node looks up a compiled schema node by canonical URI.
func (r *Registry) Node(uri string) (*SchemaNode, bool) {
	n, ok := r.nodes[uri]
	return n, ok
}

// Len returns the number of compiled schema nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// Metrics returns the registry's metrics collector.
func (r *Registry) Metrics() *Metrics { return r.metrics }

// Schema returns a handle for the node at uri. The handle borrows the
// registry: it stays valid as long as the registry is alive and the entry
// has not been replaced by a recompilation.
func (r *Registry) Schema(uri string) (*Schema, bool) {
	if _, ok := r.nodes[uri]; !ok {
		return nil, false
	}
	return &Schema{reg: r, uri: uri}, true
}

// Schema is a lightweight handle pairing a Registry with a root URI.
type Schema struct {
	reg *Registry
	uri string
}

// URI returns the handle's root URI.
func (s *Schema) URI() string { return s.uri }

// Title returns the schema's title annotation, if any.
func (s *Schema) Title() string {
	if n, ok := s.reg.Node(s.uri); ok {
		return n.Title
	}
	return ""
}

// Description returns the schema's description annotation, if any.
func (s *Schema) Description() string {
	if n, ok := s.reg.Node(s.uri); ok {
		return n.Description
	}
	return ""
}

// Validate checks a JSON value against the schema. It returns nil on
// success and a *ValidationError identifying the rejecting constraint
// otherwise.
func (s *Schema) Validate(v any) error {
	return s.reg.Validate(s.uri, v)
}

// ValidateBytes parses JSON bytes and validates the result.
func (s *Schema) ValidateBytes(data []byte) error {
	v, err := decodeValue(data)
	if err != nil {
		return err
	}
	return s.Validate(v)
}
