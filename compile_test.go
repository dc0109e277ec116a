package jsonschema

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

const testBase = "http://test.invalid/root"

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := decodeValue([]byte(src))
	if err != nil {
		t.Fatalf("decode %s: %v", src, err)
	}
	return v
}

func mustCompile(t *testing.T, r *Registry, base, src string) string {
	t.Helper()
	uri, err := r.CompileBytes(base, []byte(src))
	if err != nil {
		t.Fatalf("compile %s: %v", src, err)
	}
	return uri
}

func wantCompileError(t *testing.T, err error, kind CompileErrorKind) *CompileError {
	t.Helper()
	if err == nil {
		t.Fatalf("want compile error %v, got nil", kind)
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("want *CompileError, got %T: %v", err, err)
	}
	if ce.Kind != kind {
		t.Fatalf("want kind %v, got %v (%v)", kind, ce.Kind, ce)
	}
	return ce
}

func TestCompileBooleanSchemas(t *testing.T) {
	r := New()
	anything := mustCompile(t, r, testBase+"/t", `true`)
	nothing := mustCompile(t, r, testBase+"/f", `false`)

	for _, v := range []any{nil, true, jsonValue(t, "5"), "x", []any{}, map[string]any{}} {
		if err := r.Validate(anything, v); err != nil {
			t.Errorf("true schema rejected %#v: %v", v, err)
		}
		err := r.Validate(nothing, v)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Kind != NoValuesPass {
			t.Errorf("false schema on %#v: got %v, want NoValuesPass", v, err)
		}
	}
}

// jsonValue decodes a single JSON value the way CompileBytes and
// ValidateBytes see it, numbers included.
func jsonValue(t *testing.T, src string) any {
	t.Helper()
	return decode(t, src)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want CompileErrorKind
	}{
		{"root number", `5`, InvalidSchemaType},
		{"root string", `"x"`, InvalidSchemaType},
		{"root array", `[true]`, InvalidSchemaType},
		{"combinator element number", `{"allOf": [5]}`, InvalidSchemaType},

		{"type number", `{"type": 5}`, InvalidKeywordType},
		{"maximum string", `{"maximum": "5"}`, InvalidKeywordType},
		{"multipleOf string", `{"multipleOf": "2"}`, InvalidKeywordType},
		{"maxLength bool", `{"maxLength": true}`, InvalidKeywordType},
		{"pattern number", `{"pattern": 5}`, InvalidKeywordType},
		{"items string", `{"items": "x"}`, InvalidKeywordType},
		{"uniqueItems number", `{"uniqueItems": 1}`, InvalidKeywordType},
		{"required string", `{"required": "a"}`, InvalidKeywordType},
		{"enum number", `{"enum": 5}`, InvalidKeywordType},
		{"allOf object", `{"allOf": {}}`, InvalidKeywordType},
		{"properties number", `{"properties": 5}`, InvalidKeywordType},
		{"patternProperties array", `{"patternProperties": []}`, InvalidKeywordType},
		{"dependencies number entry", `{"dependencies": {"a": 5}}`, InvalidKeywordType},
		{"definitions array", `{"definitions": []}`, InvalidKeywordType},
		{"title number", `{"title": 5}`, InvalidKeywordType},
		{"description number", `{"description": 5}`, InvalidKeywordType},
		{"ref number", `{"$ref": 5}`, InvalidKeywordType},
		{"id number", `{"$id": 5}`, InvalidKeywordType},
		{"schema keyword number", `{"$schema": 5}`, InvalidKeywordType},

		{"unknown type token", `{"type": "frob"}`, InvalidKeywordValue},
		{"type array with number", `{"type": ["string", 5]}`, InvalidKeywordValue},
		{"negative maxLength", `{"maxLength": -1}`, InvalidKeywordValue},
		{"fractional minItems", `{"minItems": 1.5}`, InvalidKeywordValue},
		{"zero multipleOf", `{"multipleOf": 0}`, InvalidKeywordValue},
		{"negative multipleOf", `{"multipleOf": -2}`, InvalidKeywordValue},
		{"required member number", `{"required": [5]}`, InvalidKeywordValue},

		{"unparsable id", `{"$id": ":bad"}`, InvalidId},
		{"unclosed pattern", `{"pattern": "("}`, BadPattern},
		{"unclosed patternProperties key", `{"patternProperties": {"(": true}}`, BadPattern},

		{"nested schema keyword", `{"properties": {"a": {"$schema": "http://json-schema.org/draft-06/schema#"}}}`, SubschemaUsesSchemaKeyword},
		{"draft-07 dialect", `{"$schema": "http://json-schema.org/draft-07/schema#"}`, UnknownSchemaVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			_, err := r.CompileBytes(testBase, []byte(tt.src))
			wantCompileError(t, err, tt.want)
			if r.Len() != 0 {
				t.Errorf("failed compile left %d nodes in the registry", r.Len())
			}
		})
	}
}

func TestCompileBadBaseURI(t *testing.T) {
	r := New()
	_, err := r.CompileBytes("http://bad host/schema", []byte(`true`))
	wantCompileError(t, err, InvalidId)
}

func TestCompileDialectPinAccepted(t *testing.T) {
	r := New()
	mustCompile(t, r, testBase, `{"$schema": "http://json-schema.org/draft-06/schema#", "type": "string"}`)
}

// A compile error must leave the registry exactly as it was, even when some
// subschemas of the failing document compiled cleanly first.
func TestCompileAtomicity(t *testing.T) {
	r := New()
	good := mustCompile(t, r, testBase+"/good", `{"type": "string"}`)
	before := r.Len()

	_, err := r.CompileBytes(testBase+"/bad", []byte(`{
		"properties": {
			"a": {"type": "string"},
			"b": {"type": 5}
		}
	}`))
	wantCompileError(t, err, InvalidKeywordType)

	if r.Len() != before {
		t.Errorf("registry grew from %d to %d nodes across a failed compile", before, r.Len())
	}
	if _, ok := r.Node(good); !ok {
		t.Errorf("earlier node %q lost", good)
	}
	if _, ok := r.Node(testBase + "/bad#/properties/a"); ok {
		t.Error("subschema of failed document was registered")
	}
}

// Compiling the same document must always produce the same nodes under the
// same URIs, whichever registry it lands in.
func TestCompileDeterministic(t *testing.T) {
	const src = `{
		"$id": "http://example.com/widget",
		"title": "Widget",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "pattern": "^[a-z]+$"},
			"size": {"type": "integer", "minimum": 0, "multipleOf": 2}
		},
		"patternProperties": {"^x-": true},
		"additionalProperties": false,
		"dependencies": {"size": ["name"], "name": {"minProperties": 1}},
		"items": [{"type": "string"}, true],
		"additionalItems": {"enum": [1, "a", [2]]},
		"definitions": {"leaf": {"const": {"a": [1]}}},
		"allOf": [{"$ref": "#/definitions/leaf"}],
		"anyOf": [true, false],
		"oneOf": [{"not": false}]
	}`

	opts := []cmp.Option{
		cmp.AllowUnexported(SchemaNode{}, validator{}),
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmp.Comparer(func(a, b *regexp.Regexp) bool { return a.String() == b.String() }),
	}

	r1, r2 := New(), New()
	mustCompile(t, r1, testBase, src)
	mustCompile(t, r2, testBase, src)
	if diff := cmp.Diff(r1.nodes, r2.nodes, opts...); diff != "" {
		t.Errorf("registries differ after identical compiles (-r1 +r2):\n%s", diff)
	}

	// Recompiling into the same registry replaces entries in place.
	before := r1.Len()
	mustCompile(t, r1, testBase, src)
	if r1.Len() != before {
		t.Errorf("recompile changed node count from %d to %d", before, r1.Len())
	}
	if diff := cmp.Diff(r1.nodes, r2.nodes, opts...); diff != "" {
		t.Errorf("recompile changed nodes (-r1 +r2):\n%s", diff)
	}
}

func TestCompileIdRebasesChildren(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{
		"$id": "http://example.com/root",
		"properties": {
			"a": {"$id": "http://other.com/a", "type": "string"},
			"b": {"$id": "relative", "type": "integer"}
		}
	}`)
	if uri != "http://example.com/root" {
		t.Fatalf("root registered as %q", uri)
	}

	node, ok := r.Node(uri)
	if !ok {
		t.Fatal("root node missing")
	}
	props, ok := node.Conditions()[0].(*Properties)
	if !ok {
		t.Fatalf("condition is %T, want *Properties", node.Conditions()[0])
	}
	if got := props.Named["a"]; got != "http://other.com/a" {
		t.Errorf("child a registered as %q", got)
	}
	if got := props.Named["b"]; got != "http://example.com/relative" {
		t.Errorf("child b registered as %q", got)
	}
	for _, child := range []string{"http://other.com/a", "http://example.com/relative"} {
		if _, ok := r.Node(child); !ok {
			t.Errorf("child node %q missing", child)
		}
	}
}

// Keywords beside $ref contribute no constraints, but definitions entries
// are still registered so same-document fragment refs resolve.
func TestCompileRefIgnoresSiblings(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{
		"$ref": "#/definitions/a",
		"type": "integer",
		"definitions": {"a": {"type": "string"}}
	}`)

	if err := r.Validate(uri, "x"); err != nil {
		t.Errorf("string rejected through ref: %v", err)
	}
	err := r.Validate(uri, jsonValue(t, "5"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Kind != ConditionFailed || ve.Condition.Keyword() != "type" {
		t.Errorf("integer: got %v, want type failure from the referenced schema", err)
	}
}

// An additionalItems without an array-form items constrains nothing, but
// its subschema still registers as a ref target.
func TestCompileOrphanAdditionalItems(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{"additionalItems": {"type": "string"}}`)

	if err := r.Validate(uri, []any{jsonValue(t, "1"), true}); err != nil {
		t.Errorf("orphan additionalItems constrained the array: %v", err)
	}
	if _, ok := r.Node(testBase + "#/additionalItems"); !ok {
		t.Error("orphan additionalItems subschema not registered")
	}
}

func TestCompileRegexpCacheShared(t *testing.T) {
	r := New()
	mustCompile(t, r, testBase+"/a", `{"pattern": "^ab+c$"}`)
	mustCompile(t, r, testBase+"/b", `{"pattern": "^ab+c$"}`)

	if n := r.regexps.Len(); n != 1 {
		t.Errorf("cache holds %d patterns, want 1", n)
	}
	if hits := r.regexps.Hits(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestCompileUnknownKeywordsIgnored(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{"frobnicate": 5, "format": "email", "type": "string"}`)
	if err := r.Validate(uri, "not an email"); err != nil {
		t.Errorf("unknown and annotation keywords affected validation: %v", err)
	}
}
