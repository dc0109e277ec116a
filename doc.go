// Package jsonschema compiles JSON Schema documents (draft-06) into
// immutable validators and applies them to arbitrary JSON values.
//
// Schemas are compiled into a Registry, a URI-keyed store that owns every
// compiled schema node. Subschemas reference each other by URI rather than
// by pointer, which lets forward and circular $ref chains compile without
// cyclic data structures.
//
// # Quick Start
//
//	reg := jsonschema.New()
//	uri, err := reg.CompileBytes("http://example.com/person", schemaJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	schema, _ := reg.Schema(uri)
//	if err := schema.ValidateBytes(doc); err != nil {
//	    fmt.Println(err)
//	}
//
// # Evaluation Order
//
// Each schema node holds an ordered list of conditions, one per validation
// keyword. Conditions are sorted by a fixed priority table so that cheap,
// highly discriminating checks (type, bounds, required) run before checks
// that recurse into subschemas (properties, allOf). Validation is fail-fast:
// the first failing condition is reported and evaluation stops.
//
// Conditions are type-orthogonal: a constraint tied to one JSON type is
// vacuously satisfied by values of any other type, so {"maximum": 5}
// accepts the string "abc".
//
// # Metaschema Validation
//
//	reg := jsonschema.New(jsonschema.WithMetaschemaCheck())
//
// seeds the registry with the bundled draft-06 metaschema and validates
// every document submitted to Compile against it first.
//
// # Concurrency
//
// A Registry follows a single-writer/multiple-readers discipline. Compile
// mutates the registry and must not run concurrently with anything else;
// Validate is read-only and side-effect-free, so any number of validations
// may run concurrently against a registry that is not being compiled into.
// The registry takes no locks of its own; see the worker package for
// parallel batch validation.
//
// # Deviations
//
// When $ref is present, sibling keywords contribute no constraints,
// matching several widely deployed draft-06 implementations rather than
// the strictest reading of the draft. $id, title and description are still
// honored, and definitions entries are still registered as $ref targets.
// Reference cycles with no terminating condition do not terminate unless
// WithRefDepthLimit is set.
package jsonschema
