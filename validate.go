package jsonschema

import "time"

// scope carries the evaluation state of one validation call: the registry
// to resolve references through and the remaining reference budget.
type scope struct {
	reg *Registry

	// remaining counts down $ref hops when limited; ignored otherwise.
	remaining int
	limited   bool
}

// Validate checks a JSON value against the node at uri. It is read-only:
// safe to call concurrently with other validations, but not with Compile.
func (r *Registry) Validate(uri string, v any) error {
	start := time.Now()
	s := &scope{reg: r}
	if r.opts.RefDepthLimit > 0 {
		s.limited = true
		s.remaining = r.opts.RefDepthLimit
	}
	err := s.validate(uri, v)
	if r.opts.CollectMetrics {
		r.metrics.RecordValidation(time.Since(start), err == nil)
	}
	return err
}

// validate resolves uri and evaluates its node against v.
func (s *scope) validate(uri string, v any) error {
	node, ok := s.reg.nodes[uri]
	if !ok {
		return &ValidationError{Kind: BadReference, URI: uri}
	}
	return s.validateNode(node, v)
}

// validateNode evaluates one node's validator against v.
func (s *scope) validateNode(n *SchemaNode, v any) error {
	switch n.validator.kind {
	case validatorAnything:
		return nil
	case validatorNothing:
		return &ValidationError{Kind: NoValuesPass}
	case validatorReference:
		if s.limited {
			if s.remaining == 0 {
				return &ValidationError{Kind: RefDepthExceeded, URI: n.validator.ref}
			}
			s.remaining--
		}
		return s.validate(n.validator.ref, v)
	case validatorConditions:
		for _, c := range n.validator.conditions {
			if err := c.check(s, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ValidationError{Kind: BadReference}
	}
}

// passes reports whether v validates against the node at uri, swallowing
// ordinary failures. A missing target or an exhausted reference budget is
// still surfaced: those are configuration errors, not data mismatches.
func (s *scope) passes(uri string, v any) (bool, error) {
	node, ok := s.reg.nodes[uri]
	if !ok {
		return false, &ValidationError{Kind: BadReference, URI: uri}
	}
	err := s.validateNode(node, v)
	if err == nil {
		return true, nil
	}
	if ve, ok := err.(*ValidationError); ok && ve.Kind == RefDepthExceeded {
		return false, err
	}
	return false, nil
}
