package jsonschema

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// SchemaVersion is the only dialect identifier accepted by the "$schema"
// keyword.
const SchemaVersion = "http://json-schema.org/draft-06/schema#"

// Compile translates a schema document into registry entries and returns
// the root node's effective URI. Registration is atomic: a compile error
// leaves the registry unchanged, so a keyword-level failure never exposes a
// partially specified node tree.
//
// Compile mutates the registry and must not run concurrently with any
// other call on it.
func (r *Registry) Compile(baseURI string, doc any) (string, error) {
	return r.compile(baseURI, doc, false)
}

// CompileBytes parses JSON bytes (preserving numeric precision) and
// compiles the result.
func (r *Registry) CompileBytes(baseURI string, data []byte) (string, error) {
	doc, err := decodeValue(data)
	if err != nil {
		return "", err
	}
	return r.Compile(baseURI, doc)
}

// compile is the shared implementation; meta bypasses the metaschema check
// so the metaschema itself can bootstrap.
func (r *Registry) compile(baseURI string, doc any, meta bool) (string, error) {
	start := time.Now()
	base, err := url.Parse(baseURI)
	if err != nil {
		return "", &CompileError{Kind: InvalidId, Detail: baseURI, Err: err}
	}

	if !meta && r.opts.MetaschemaCheck && r.metaURI != "" {
		if verr := r.Validate(r.metaURI, doc); verr != nil {
			return "", &CompileError{Kind: MetaschemaFailedToValidate, Err: verr}
		}
	}

	c := &compiler{reg: r, staged: make(map[string]*SchemaNode)}
	uri, err := c.schema(base, doc, 0)
	if r.opts.CollectMetrics {
		r.metrics.RecordCompile(time.Since(start), len(c.staged), err == nil)
	}
	if err != nil {
		return "", err
	}
	for key, node := range c.staged {
		r.nodes[key] = node
	}
	return uri, nil
}

// compiler accumulates nodes in a staging map so registration happens all
// at once or not at all.
type compiler struct {
	reg    *Registry
	staged map[string]*SchemaNode
}

// schema compiles one schema node (and, recursively, every subschema it
// contains) under the URI inherited from its structural position.
func (c *compiler) schema(u *url.URL, v any, depth int) (string, error) {
	switch doc := v.(type) {
	case bool:
		key := uriKey(u)
		kind := validatorAnything
		if !doc {
			kind = validatorNothing
		}
		c.staged[key] = &SchemaNode{validator: validator{kind: kind}}
		return key, nil
	case map[string]any:
		return c.object(u, doc, depth)
	default:
		return "", &CompileError{Kind: InvalidSchemaType, Detail: fmt.Sprintf("%T", v)}
	}
}

// object compiles an object-form schema node.
func (c *compiler) object(u *url.URL, obj map[string]any, depth int) (string, error) {
	if raw, ok := obj["$schema"]; ok {
		if depth > 0 {
			return "", &CompileError{Kind: SubschemaUsesSchemaKeyword}
		}
		version, ok := raw.(string)
		if !ok {
			return "", &CompileError{Kind: InvalidKeywordType, Keyword: "$schema"}
		}
		if version != SchemaVersion {
			return "", &CompileError{Kind: UnknownSchemaVersion, Detail: version}
		}
	}

	// $id replaces the inherited URI; pointer-derived children hang off
	// the new base. Relative ids resolve against the inherited URI.
	effective := u
	if raw, ok := obj["$id"]; ok {
		id, ok := raw.(string)
		if !ok {
			return "", &CompileError{Kind: InvalidKeywordType, Keyword: "$id"}
		}
		parsed, err := url.Parse(id)
		if err != nil {
			return "", &CompileError{Kind: InvalidId, Detail: id, Err: err}
		}
		effective = u.ResolveReference(parsed)
	}

	node := &SchemaNode{}
	if raw, ok := obj["title"]; ok {
		title, ok := raw.(string)
		if !ok {
			return "", &CompileError{Kind: InvalidKeywordType, Keyword: "title"}
		}
		node.Title = title
	}
	if raw, ok := obj["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			return "", &CompileError{Kind: InvalidKeywordType, Keyword: "description"}
		}
		node.Description = description
	}

	key := uriKey(effective)

	// $ref defers the whole node to its target; sibling keywords other
	// than the ones consumed above contribute no constraints (see package
	// docs). definitions is still registered so fragment refs into the
	// same document resolve.
	if raw, ok := obj["$ref"]; ok {
		ref, ok := raw.(string)
		if !ok {
			return "", &CompileError{Kind: InvalidKeywordType, Keyword: "$ref"}
		}
		parsed, err := url.Parse(ref)
		if err != nil {
			return "", &CompileError{Kind: InvalidKeywordValue, Keyword: "$ref", Detail: ref, Err: err}
		}
		if err := c.definitions(effective, obj, depth); err != nil {
			return "", err
		}
		node.validator = validator{
			kind: validatorReference,
			ref:  uriKey(effective.ResolveReference(parsed)),
		}
		c.staged[key] = node
		return key, nil
	}

	conditions, err := c.conditions(effective, obj, depth)
	if err != nil {
		return "", err
	}
	sort.SliceStable(conditions, func(i, j int) bool {
		return conditions[i].priority() < conditions[j].priority()
	})
	node.validator = validator{kind: validatorConditions, conditions: conditions}
	c.staged[key] = node
	return key, nil
}

// conditions builds the condition list from the remaining keywords.
// Keywords are visited in name order so identical documents always compile
// to identical, identically ordered condition lists.
func (c *compiler) conditions(u *url.URL, obj map[string]any, depth int) ([]Condition, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conditions []Condition
	add := func(cond Condition) { conditions = append(conditions, cond) }

	for _, k := range keys {
		v := obj[k]
		switch k {
		case "$schema", "$id", "$ref", "title", "description":
			// Consumed by object().

		case "default", "examples", "format":
			// Annotations; format is deliberately not enforced.

		case "type":
			cond, err := compileType(v)
			if err != nil {
				return nil, err
			}
			add(cond)

		case "multipleOf":
			d, ok := numberValue(v)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordType, Keyword: k}
			}
			if d.Sign() <= 0 {
				return nil, &CompileError{Kind: InvalidKeywordValue, Keyword: k, Detail: d.String()}
			}
			add(&MultipleOf{Factor: d})

		case "maximum", "exclusiveMaximum", "minimum", "exclusiveMinimum":
			d, ok := numberValue(v)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordType, Keyword: k}
			}
			switch k {
			case "maximum":
				add(&Maximum{Bound: d})
			case "exclusiveMaximum":
				add(&ExclusiveMaximum{Bound: d})
			case "minimum":
				add(&Minimum{Bound: d})
			case "exclusiveMinimum":
				add(&ExclusiveMinimum{Bound: d})
			}

		case "maxLength", "minLength", "maxItems", "minItems", "maxProperties", "minProperties":
			n, isNumber, ok := countValue(v)
			if !isNumber {
				return nil, &CompileError{Kind: InvalidKeywordType, Keyword: k}
			}
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordValue, Keyword: k}
			}
			switch k {
			case "maxLength":
				add(&MaxLength{Limit: n})
			case "minLength":
				add(&MinLength{Limit: n})
			case "maxItems":
				add(&MaxItems{Limit: n})
			case "minItems":
				add(&MinItems{Limit: n})
			case "maxProperties":
				add(&MaxProperties{Limit: n})
			case "minProperties":
				add(&MinProperties{Limit: n})
			}

		case "pattern":
			src, ok := v.(string)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordType, Keyword: k}
			}
			re, err := c.compileRegexp(src)
			if err != nil {
				return nil, err
			}
			add(&Pattern{Source: src, Regexp: re})

		case "items":
			cond, err := c.compileItems(u, v, obj["additionalItems"], depth)
			if err != nil {
				return nil, err
			}
			add(cond)

		case "additionalItems":
			// Consumed by the items case when items is an array. Otherwise
			// it constrains nothing, but its subschema is still compiled
			// and registered so $ref can target it.
			if _, ok := obj["items"].([]any); !ok {
				if _, err := c.schema(pushURI(u, "additionalItems"), v, depth+1); err != nil {
					return nil, err
				}
			}

		case "uniqueItems":
			enabled, ok := v.(bool)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordType, Keyword: k}
			}
			add(&UniqueItems{Enabled: enabled})

		case "contains":
			uri, err := c.schema(pushURI(u, "contains"), v, depth+1)
			if err != nil {
				return nil, err
			}
			add(&Contains{Schema: uri})

		case "required":
			names, err := stringSlice(k, v)
			if err != nil {
				return nil, err
			}
			add(&Required{Names: names})

		case "properties", "patternProperties", "additionalProperties":
			// Combined into one Properties condition below.

		case "dependencies":
			cond, err := c.compileDependencies(u, v, depth)
			if err != nil {
				return nil, err
			}
			add(cond)

		case "propertyNames":
			uri, err := c.schema(pushURI(u, "propertyNames"), v, depth+1)
			if err != nil {
				return nil, err
			}
			add(&PropertyNames{Schema: uri})

		case "enum":
			values, ok := v.([]any)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordType, Keyword: k}
			}
			add(&Enum{Values: values})

		case "const":
			add(&Const{Value: v})

		case "allOf", "anyOf", "oneOf":
			uris, err := c.schemaList(u, k, v, depth)
			if err != nil {
				return nil, err
			}
			switch k {
			case "allOf":
				add(&AllOf{Schemas: uris})
			case "anyOf":
				add(&AnyOf{Schemas: uris})
			case "oneOf":
				add(&OneOf{Schemas: uris})
			}

		case "not":
			uri, err := c.schema(pushURI(u, "not"), v, depth+1)
			if err != nil {
				return nil, err
			}
			add(&Not{Schema: uri})

		case "definitions":
			// No condition, but every entry compiles and registers so it
			// can be a $ref target.
			if err := c.definitions(u, obj, depth); err != nil {
				return nil, err
			}

		default:
			// Unrecognized keywords never fail compilation.
		}
	}

	if cond, ok, err := c.compileProperties(u, obj, depth); err != nil {
		return nil, err
	} else if ok {
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

// definitions compiles and registers every definitions entry. It runs even
// for $ref nodes so same-document fragment refs resolve.
func (c *compiler) definitions(u *url.URL, obj map[string]any, depth int) error {
	raw, ok := obj["definitions"]
	if !ok {
		return nil
	}
	defs, ok := raw.(map[string]any)
	if !ok {
		return &CompileError{Kind: InvalidKeywordType, Keyword: "definitions"}
	}
	for _, name := range sortedKeys(defs) {
		if _, err := c.schema(pushURI(u, "definitions", name), defs[name], depth+1); err != nil {
			return err
		}
	}
	return nil
}

// compileType builds a Type condition from a string or array of strings.
func compileType(v any) (Condition, error) {
	switch tv := v.(type) {
	case string:
		t, ok := typeFromString(tv)
		if !ok {
			return nil, &CompileError{Kind: InvalidKeywordValue, Keyword: "type", Detail: tv}
		}
		return &Type{Types: []ValueType{t}}, nil
	case []any:
		types := make([]ValueType, 0, len(tv))
		for _, elem := range tv {
			token, ok := elem.(string)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordValue, Keyword: "type"}
			}
			t, ok := typeFromString(token)
			if !ok {
				return nil, &CompileError{Kind: InvalidKeywordValue, Keyword: "type", Detail: token}
			}
			types = append(types, t)
		}
		return &Type{Types: types}, nil
	default:
		return nil, &CompileError{Kind: InvalidKeywordType, Keyword: "type"}
	}
}

// compileItems builds the Items condition from items and, when items is an
// array, additionalItems.
func (c *compiler) compileItems(u *url.URL, items, additional any, depth int) (Condition, error) {
	cond := &Items{}
	switch iv := items.(type) {
	case []any:
		for i, elem := range iv {
			uri, err := c.schema(pushURI(u, "items", strconv.Itoa(i)), elem, depth+1)
			if err != nil {
				return nil, err
			}
			cond.Positional = append(cond.Positional, uri)
		}
		if additional != nil {
			uri, err := c.schema(pushURI(u, "additionalItems"), additional, depth+1)
			if err != nil {
				return nil, err
			}
			cond.Trailing = uri
		}
	case map[string]any, bool:
		uri, err := c.schema(pushURI(u, "items"), iv, depth+1)
		if err != nil {
			return nil, err
		}
		cond.Trailing = uri
	default:
		return nil, &CompileError{Kind: InvalidKeywordType, Keyword: "items"}
	}
	return cond, nil
}

// compileProperties merges properties, patternProperties and
// additionalProperties into a single condition; reports ok=false when none
// of the three keywords is present.
func (c *compiler) compileProperties(u *url.URL, obj map[string]any, depth int) (Condition, bool, error) {
	rawNamed, hasNamed := obj["properties"]
	rawPatterns, hasPatterns := obj["patternProperties"]
	rawAdditional, hasAdditional := obj["additionalProperties"]
	if !hasNamed && !hasPatterns && !hasAdditional {
		return nil, false, nil
	}

	cond := &Properties{}
	if hasNamed {
		props, ok := rawNamed.(map[string]any)
		if !ok {
			return nil, false, &CompileError{Kind: InvalidKeywordType, Keyword: "properties"}
		}
		cond.Named = make(map[string]string, len(props))
		for _, name := range sortedKeys(props) {
			uri, err := c.schema(pushURI(u, "properties", name), props[name], depth+1)
			if err != nil {
				return nil, false, err
			}
			cond.Named[name] = uri
		}
	}
	if hasPatterns {
		patterns, ok := rawPatterns.(map[string]any)
		if !ok {
			return nil, false, &CompileError{Kind: InvalidKeywordType, Keyword: "patternProperties"}
		}
		for _, src := range sortedKeys(patterns) {
			re, err := c.compileRegexp(src)
			if err != nil {
				return nil, false, err
			}
			uri, err := c.schema(pushURI(u, "patternProperties", src), patterns[src], depth+1)
			if err != nil {
				return nil, false, err
			}
			cond.Patterns = append(cond.Patterns, PatternProperty{Source: src, Regexp: re, Schema: uri})
		}
	}
	if hasAdditional {
		uri, err := c.schema(pushURI(u, "additionalProperties"), rawAdditional, depth+1)
		if err != nil {
			return nil, false, err
		}
		cond.Additional = uri
	}
	return cond, true, nil
}

// compileDependencies builds the Dependencies condition; each entry is
// either a property-name list or a schema.
func (c *compiler) compileDependencies(u *url.URL, v any, depth int) (Condition, error) {
	deps, ok := v.(map[string]any)
	if !ok {
		return nil, &CompileError{Kind: InvalidKeywordType, Keyword: "dependencies"}
	}
	cond := &Dependencies{Deps: make([]Dependency, 0, len(deps))}
	for _, name := range sortedKeys(deps) {
		switch dv := deps[name].(type) {
		case []any:
			names, err := stringSlice("dependencies", dv)
			if err != nil {
				return nil, err
			}
			cond.Deps = append(cond.Deps, Dependency{Name: name, Names: names})
		case map[string]any, bool:
			uri, err := c.schema(pushURI(u, "dependencies", name), dv, depth+1)
			if err != nil {
				return nil, err
			}
			cond.Deps = append(cond.Deps, Dependency{Name: name, Schema: uri})
		default:
			return nil, &CompileError{Kind: InvalidKeywordType, Keyword: "dependencies", Detail: name}
		}
	}
	return cond, nil
}

// schemaList compiles each element of an allOf/anyOf/oneOf array under the
// pointer path keyword/index.
func (c *compiler) schemaList(u *url.URL, keyword string, v any, depth int) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, &CompileError{Kind: InvalidKeywordType, Keyword: keyword}
	}
	uris := make([]string, 0, len(arr))
	for i, elem := range arr {
		uri, err := c.schema(pushURI(u, keyword, strconv.Itoa(i)), elem, depth+1)
		if err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

// compileRegexp compiles a pattern through the registry's shared cache so
// repeated patterns compile once per registry.
func (c *compiler) compileRegexp(src string) (*regexp.Regexp, error) {
	if re, ok := c.reg.regexps.Get(src); ok {
		return re, nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &CompileError{Kind: BadPattern, Detail: src, Err: err}
	}
	c.reg.regexps.Set(src, re)
	return re, nil
}

// stringSlice converts an array keyword value to []string.
func stringSlice(keyword string, v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, &CompileError{Kind: InvalidKeywordType, Keyword: keyword}
	}
	out := make([]string, 0, len(arr))
	for _, elem := range arr {
		s, ok := elem.(string)
		if !ok {
			return nil, &CompileError{Kind: InvalidKeywordValue, Keyword: keyword}
		}
		out = append(out, s)
	}
	return out, nil
}

// sortedKeys returns a map's keys in sorted order for deterministic
// compilation.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
