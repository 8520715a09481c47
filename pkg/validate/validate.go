package validate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"github.com/dhruvkb/plsschema/pkg/plserrors"
)

// DefaultResourceName is the resource name used when the schema has no
// string `$id`.
const DefaultResourceName = "pls_config.json"

// Validator validates documents against a compiled JSON Schema. It is safe
// for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
	id     string
}

// NewValidator compiles the JSON Schema in schemaJSON.
func NewValidator(schemaJSON []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", plserrors.ErrCompileSchema, err)
	}

	id := DefaultResourceName
	if m, ok := doc.(map[string]any); ok {
		if s, ok := m["$id"].(string); ok && s != "" {
			id = s
		}
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(id, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrCompileSchema, err)
	}

	sch, err := c.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrCompileSchema, err)
	}

	return &Validator{schema: sch, id: id}, nil
}

// NewValidatorFromFile compiles the JSON Schema stored at path.
func NewValidatorFromFile(path string) (*Validator, error) {
	//nolint:gosec // G304 not relevant for client-side validation.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrReadFile, err)
	}

	return NewValidator(data)
}

// ID returns the name the schema was compiled under.
func (v *Validator) ID() string {
	return v.id
}

// ValidateBytes validates a YAML or JSON document.
func (v *Validator) ValidateBytes(data []byte) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("%w: %w", plserrors.ErrDecodeYAML, err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %w", plserrors.ErrDecodeYAML, err)
	}

	if err := v.schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", plserrors.ErrValidation, err)
	}

	return nil
}

// ValidateFile validates the YAML or JSON document stored at path.
func (v *Validator) ValidateFile(path string) error {
	//nolint:gosec // G304 not relevant for client-side validation.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", plserrors.ErrReadFile, err)
	}

	return v.ValidateBytes(data)
}

// ValidateFiles validates every file in paths concurrently. All failures are
// returned together, in the order of paths, each prefixed by its path.
func (v *Validator) ValidateFiles(ctx context.Context, paths ...string) error {
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err

				return nil
			}

			err := v.ValidateFile(path)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)

				return nil
			}

			slog.Debug("valid", slog.String("path", path), slog.String("schema", v.id))

			return nil
		})
	}

	//nolint:errcheck // Workers never return errors.
	g.Wait()

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	return merr.ErrorOrNil()
}
