package suite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	jsonschema "github.com/remexre/json-schema"
)

func TestLoadDir(t *testing.T) {
	files, names, err := LoadDir(filepath.Join("testdata", "draft6"))
	require.NoError(t, err)
	require.Equal(t, []string{"properties.json", "ref.json", "type.json"}, names)

	for name, groups := range files {
		require.NotEmpty(t, groups, "file %s has no records", name)
		for _, g := range groups {
			require.NotEmpty(t, g.Description)
			require.NotEmpty(t, g.Tests)
		}
	}
}

func TestBaseURI(t *testing.T) {
	uri := BaseURI(filepath.Join("testdata", "draft6", "type.json"), 3)
	require.Equal(t, "http://json-schema.test/type/3", uri)
}

// TestConformance runs the bundled draft-06 suite files end to end: each
// record's schema compiles under a URI derived from its file and index, and
// each case's verdict must match.
func TestConformance(t *testing.T) {
	files, names, err := LoadDir(filepath.Join("testdata", "draft6"))
	require.NoError(t, err)

	for _, name := range names {
		name := name
		t.Run(name, func(t *testing.T) {
			reg := jsonschema.New()
			for i, group := range files[name] {
				uri, err := reg.CompileBytes(BaseURI(name, i), group.Schema)
				require.NoError(t, err, "compiling %q", group.Description)

				schema, ok := reg.Schema(uri)
				require.True(t, ok)

				for _, tc := range group.Tests {
					err := schema.ValidateBytes(tc.Data)
					if tc.Valid {
						require.NoError(t, err, "%s: %s", group.Description, tc.Description)
					} else {
						require.Error(t, err, "%s: %s", group.Description, tc.Description)
					}
				}
			}
		})
	}
}
