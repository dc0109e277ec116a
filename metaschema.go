package jsonschema

import "github.com/remexre/json-schema/specs"

// MetaschemaURI is the canonical URI of the draft-06 metaschema.
const MetaschemaURI = specs.Draft06URI

// AddMetaschema compiles the bundled draft-06 metaschema into the registry
// and returns its root URI. The compile deliberately bypasses the
// metaschema check: validating the metaschema before compiling it would
// require already having compiled it.
//
// Registries created with WithMetaschemaCheck call this automatically;
// calling it on any other registry simply makes the metaschema available
// as a $ref target and for explicit validation.
func (r *Registry) AddMetaschema() (string, error) {
	doc, err := decodeValue(specs.Draft06())
	if err != nil {
		return "", err
	}
	uri, err := r.compile(MetaschemaURI, doc, true)
	if err != nil {
		return "", err
	}
	r.metaURI = uri
	return uri, nil
}

// MetaschemaRef returns the root URI of the bootstrapped metaschema, or ""
// if AddMetaschema has not run on this registry.
func (r *Registry) MetaschemaRef() string { return r.metaURI }
