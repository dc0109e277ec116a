// Command jsonschema compiles draft-06 JSON Schemas and validates JSON
// documents against them.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "v0.1.0"

func main() {
	app := &cli.App{
		Name:    "jsonschema",
		Usage:   "compile and validate JSON documents against draft-06 JSON Schemas",
		Version: version,
		Suggest: true,
		Commands: cli.Commands{
			checkCommand,
			validateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
