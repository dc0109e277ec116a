// Package suite loads JSON-Schema conformance test files.
//
// Each file holds a list of records of the form
//
//	{"description": ..., "schema": ..., "tests": [{"description": ..., "data": ..., "valid": ...}]}
//
// as used by the official JSON-Schema-Test-Suite. The harness compiles each
// record's schema under a URI derived from the file path and record index,
// then checks every nested case against it.
package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/friendsofgo/errors"
)

// Group is one record of a conformance file: a schema and its cases.
type Group struct {
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
	Tests       []Case          `json:"tests"`
}

// Case is one data/verdict pair.
type Case struct {
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	Valid       bool            `json:"valid"`
}

// LoadFile reads one conformance file.
func LoadFile(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading suite file %s", path)
	}
	var groups []Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, errors.Wrapf(err, "parsing suite file %s", path)
	}
	return groups, nil
}

// LoadDir reads every .json file directly under dir, keyed by file name,
// in sorted order for deterministic iteration.
func LoadDir(dir string) (map[string][]Group, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading suite directory %s", dir)
	}
	files := make(map[string][]Group)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		groups, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, err
		}
		files[entry.Name()] = groups
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return files, names, nil
}

// BaseURI derives the compile URI for a record from its file path and
// index, so every record in a run lands on a distinct, stable identity.
func BaseURI(file string, index int) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return fmt.Sprintf("http://json-schema.test/%s/%d", name, index)
}
