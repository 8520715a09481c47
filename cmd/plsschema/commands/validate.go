package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/plsschema/pkg/paths"
	"github.com/dhruvkb/plsschema/pkg/validate"
)

const (
	validateDesc = `This command validates pls configuration files against the published
JSON schema. Files may be YAML or JSON. Every invalid file is reported.
`
	validateExample = `  # Validate against the schema published in this repository
  plsschema validate ~/.pls.yml .pls.yml

  # Validate against another copy of the schema
  plsschema validate --schema ./pls_config.json .pls.yml
`
)

// NewValidateCmd returns the validate command.
func NewValidateCmd(arg *RootArgs) *cobra.Command {
	args := NewValidateArgs(arg)

	cmd := &cobra.Command{
		Use:     "validate FILE...",
		Short:   "Validate pls configuration files",
		Long:    validateDesc,
		Example: validateExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, pArgs []string) error {
			schemaPath := args.GetSchema()
			if schemaPath == "" {
				schemaPath = filepath.Join(paths.DefaultDestDir, paths.JSONFileName)
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}

			schemaPath = paths.Resolve(wd, schemaPath)

			v, err := validate.NewValidatorFromFile(schemaPath)
			if err != nil {
				return fmt.Errorf("load schema %s: %w", schemaPath, err)
			}

			slog.Debug("validating", slog.String("schema", schemaPath), slog.Int("files", len(pArgs)))

			if err := v.ValidateFiles(cc.Context(), pArgs...); err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(args.schema, "schema", "",
		"JSON schema to validate against (default: the published pls_config.json)")
	must(cmd.MarkFlagFilename("schema", "json"))

	return cmd
}

// ValidateArgs holds the arguments for the validate command.
type ValidateArgs struct {
	schema *string
	*RootArgs
}

// NewValidateArgs creates a new [ValidateArgs].
func NewValidateArgs(args *RootArgs) *ValidateArgs {
	return &ValidateArgs{
		schema:   new(string),
		RootArgs: args,
	}
}

func (a *ValidateArgs) GetSchema() string {
	return *a.schema
}
