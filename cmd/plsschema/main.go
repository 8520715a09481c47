package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhruvkb/plsschema/cmd/plsschema/commands"
)

const (
	cmdName = "plsschema"

	shortDesc = "Publish the pls configuration schema."
	longDesc  = `Publish the pls configuration schema to the documentation site.

The hand-maintained YAML schema is converted to JSON, with the .yml suffix of
its $id replaced by .json, and both forms are written to the site's static
assets directory. Run without arguments as part of the site build.
`
)

func main() {
	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
