package main

import (
	"fmt"
	"os"

	"github.com/buger/jsonparser"
	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
	"github.com/urfave/cli/v2"

	jsonschema "github.com/remexre/json-schema"
)

const defaultBaseURI = "http://localhost/schema"

// cliRefDepthLimit keeps a pathological $ref cycle from hanging the tool.
const cliRefDepthLimit = 10000

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "compile a schema document and report errors",
	ArgsUsage: "<schema.json>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "base-uri",
			Usage: "base URI to compile the schema under",
			Value: defaultBaseURI,
		},
		&cli.BoolFlag{
			Name:  "metaschema",
			Usage: "validate the document against the draft-06 metaschema first",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("expected exactly one schema file")
		}
		reg, uri, err := compileSchema(c, c.Args().First())
		if err != nil {
			return err
		}
		color.Green("OK: %s (%d nodes)", uri, reg.Len())
		return nil
	},
}

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "validate JSON documents against a schema",
	ArgsUsage: "<document.json>...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "schema",
			Aliases:  []string{"s"},
			Usage:    "schema file to validate against",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "base-uri",
			Usage: "base URI to compile the schema under",
			Value: defaultBaseURI,
		},
		&cli.BoolFlag{
			Name:  "metaschema",
			Usage: "validate the schema against the draft-06 metaschema first",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return errors.New("expected at least one document to validate")
		}
		reg, uri, err := compileSchema(c, c.String("schema"))
		if err != nil {
			return err
		}
		schema, _ := reg.Schema(uri)

		failures := 0
		for _, path := range c.Args().Slice() {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading document %s", path)
			}
			if err := schema.ValidateBytes(data); err != nil {
				failures++
				color.Red("FAIL %s: %v", path, err)
			} else {
				color.Green("PASS %s", path)
			}
		}
		if failures > 0 {
			return errors.Errorf("%d of %d documents failed validation", failures, c.NArg())
		}
		return nil
	},
}

// compileSchema reads, sniffs and compiles a schema file.
func compileSchema(c *cli.Context, path string) (*jsonschema.Registry, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading schema %s", path)
	}

	// Cheap dialect sniff before the full decode: an unexpected $schema is
	// going to fail compilation anyway, but the hint is friendlier here.
	if dialect, err := jsonparser.GetString(data, "$schema"); err == nil && dialect != jsonschema.SchemaVersion {
		fmt.Fprintf(os.Stderr, "warning: schema declares dialect %q; only draft-06 is supported\n", dialect)
	}

	opts := []jsonschema.Option{jsonschema.WithRefDepthLimit(cliRefDepthLimit)}
	if c.Bool("metaschema") {
		opts = append(opts, jsonschema.WithMetaschemaCheck())
	}
	reg := jsonschema.New(opts...)

	uri, err := reg.CompileBytes(c.String("base-uri"), data)
	if err != nil {
		return nil, "", errors.Wrapf(err, "compiling schema %s", path)
	}
	return reg, uri, nil
}
