package jsonschema

import (
	"encoding/json"
	"testing"
)

func TestValueTypeMatches(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   ValueType
		want  bool
	}{
		{"null matches null", nil, TypeNull, true},
		{"bool is not null", true, TypeNull, false},
		{"bool matches boolean", false, TypeBoolean, true},
		{"integer matches number", json.Number("5"), TypeNumber, true},
		{"integer matches integer", json.Number("5"), TypeInteger, true},
		{"fraction matches number", json.Number("5.5"), TypeNumber, true},
		{"fraction is not integer", json.Number("5.5"), TypeInteger, false},
		{"integral fraction matches integer", json.Number("5.0"), TypeInteger, true},
		{"float64 integral matches integer", float64(3), TypeInteger, true},
		{"string matches string", "x", TypeString, true},
		{"string is not number", "5", TypeNumber, false},
		{"array matches array", []any{}, TypeArray, true},
		{"object matches object", map[string]any{}, TypeObject, true},
		{"object is not array", map[string]any{}, TypeArray, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Matches(tt.value); got != tt.want {
				t.Errorf("%s.Matches(%#v) = %v, want %v", tt.typ, tt.value, got, tt.want)
			}
		})
	}
}

func TestJSONEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"numbers across representations", json.Number("1"), float64(1), true},
		{"integer equals integral fraction", json.Number("1"), json.Number("1.0"), true},
		{"distinct numbers", json.Number("1"), json.Number("2"), false},
		{"number is not numeric string", json.Number("1"), "1", false},
		{"nested arrays", []any{json.Number("1"), []any{"a"}}, []any{json.Number("1.0"), []any{"a"}}, true},
		{"array length mismatch", []any{json.Number("1")}, []any{}, false},
		{
			"objects key order free",
			map[string]any{"a": json.Number("1"), "b": nil},
			map[string]any{"b": nil, "a": json.Number("1.0")},
			true,
		},
		{"object member mismatch", map[string]any{"a": true}, map[string]any{"a": false}, false},
		{"null equals null", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsonEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("jsonEqual(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := jsonEqual(tt.b, tt.a); got != tt.want {
				t.Errorf("jsonEqual(%#v, %#v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

// Conditions must come out of the compiler cheapest-first: type, then direct
// scalar checks, then the merged properties check, then everything that
// recurses into subschemas.
func TestConditionOrdering(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{
		"enum": ["a"],
		"allOf": [true],
		"properties": {"a": true},
		"minLength": 1,
		"maxLength": 5,
		"type": "string"
	}`)
	node, ok := r.Node(uri)
	if !ok {
		t.Fatalf("node %q missing", uri)
	}
	want := []string{"type", "maxLength", "minLength", "properties", "allOf", "enum"}
	conds := node.Conditions()
	if len(conds) != len(want) {
		t.Fatalf("got %d conditions, want %d", len(conds), len(want))
	}
	for i, c := range conds {
		if c.Keyword() != want[i] {
			t.Errorf("condition %d = %q, want %q", i, c.Keyword(), want[i])
		}
	}
}
