package jsonschema

import (
	"net/url"
	"strings"
)

// pointerEscaper applies the RFC 6901 token escapes.
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pushURI derives a child URI from a parent by appending components to the
// JSON Pointer held in the parent's fragment. A fragment that is absent or
// not a pointer is treated as the root pointer. This gives every structural
// position in a document a deterministic, collision-free URI without
// counters or hashes.
func pushURI(u *url.URL, components ...string) *url.URL {
	child := *u
	frag := child.Fragment
	if frag != "" && !strings.HasPrefix(frag, "/") {
		frag = ""
	}
	var b strings.Builder
	b.WriteString(frag)
	for _, c := range components {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(c))
	}
	child.Fragment = b.String()
	child.RawFragment = ""
	return &child
}

// uriKey returns the canonical registry key for a URI. Canonicalization is
// the parse and re-serialize round trip, so "$id" strings, joined "$ref"
// targets and pointer-derived URIs that denote the same node compare equal
// as strings. In particular a bare "#" fragment canonicalizes away.
func uriKey(u *url.URL) string { return u.String() }
