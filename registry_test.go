package jsonschema

import (
	"testing"
)

func TestRegistryLookup(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Fatalf("fresh registry has %d nodes", r.Len())
	}
	if _, ok := r.Node("http://nowhere.invalid/x"); ok {
		t.Error("lookup of unknown URI succeeded")
	}
	if _, ok := r.Schema("http://nowhere.invalid/x"); ok {
		t.Error("handle for unknown URI succeeded")
	}

	uri := mustCompile(t, r, testBase, `{"title": "Thing", "description": "A thing.", "type": "object"}`)
	node, ok := r.Node(uri)
	if !ok {
		t.Fatal("compiled node missing")
	}
	if node.Title != "Thing" || node.Description != "A thing." {
		t.Errorf("annotations = %q / %q", node.Title, node.Description)
	}
}

func TestRegistrySchemaHandle(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{"title": "Widget", "type": "integer"}`)
	s, ok := r.Schema(uri)
	if !ok {
		t.Fatal("handle missing")
	}
	if s.URI() != uri {
		t.Errorf("URI = %q, want %q", s.URI(), uri)
	}
	if s.Title() != "Widget" {
		t.Errorf("Title = %q", s.Title())
	}
	if s.Description() != "" {
		t.Errorf("Description = %q, want empty", s.Description())
	}
	if err := s.Validate(decode(t, `5`)); err != nil {
		t.Errorf("5 rejected: %v", err)
	}
	wantFailure(t, s.Validate("x"), "type")
}

// Recompiling under the same base URI replaces the entry; handles follow
// the registry, not the old node.
func TestRegistryReplaceEntry(t *testing.T) {
	r := New()
	uri := mustCompile(t, r, testBase, `{"type": "string"}`)
	s, _ := r.Schema(uri)
	if err := s.Validate("x"); err != nil {
		t.Fatalf("string rejected before replacement: %v", err)
	}

	if got := mustCompile(t, r, testBase, `{"type": "integer"}`); got != uri {
		t.Fatalf("replacement registered under %q", got)
	}
	if r.Len() != 1 {
		t.Errorf("replacement grew registry to %d nodes", r.Len())
	}
	wantFailure(t, s.Validate("x"), "type")
	if err := s.Validate(decode(t, `5`)); err != nil {
		t.Errorf("integer rejected after replacement: %v", err)
	}
}

func TestRegistrySubschemaURIs(t *testing.T) {
	r := New()
	mustCompile(t, r, testBase, `{
		"properties": {"a/b": {"type": "string"}},
		"definitions": {"leaf": {"not": {"const": 1}}}
	}`)
	for _, uri := range []string{
		testBase,
		testBase + "#/properties/a~1b",
		testBase + "#/definitions/leaf",
		testBase + "#/definitions/leaf/not",
	} {
		if _, ok := r.Node(uri); !ok {
			t.Errorf("node %q missing", uri)
		}
	}
}
