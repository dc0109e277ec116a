// Package specs provides the embedded JSON Schema specification documents.
//
// Currently this is the draft-06 metaschema (the schema-of-schemas), used
// by the metaschema bootstrap to validate schema documents before they are
// compiled.
package specs

import "embed"

//go:embed draft06/schema.json
var files embed.FS

// Draft06URI is the canonical URI of the draft-06 metaschema.
const Draft06URI = "http://json-schema.org/draft-06/schema#"

// Draft06 returns the draft-06 metaschema document.
func Draft06() []byte {
	data, err := files.ReadFile("draft06/schema.json")
	if err != nil {
		// The file is embedded at build time; this cannot happen in a
		// well-formed binary.
		panic("specs: embedded draft-06 metaschema missing: " + err.Error())
	}
	return data
}
