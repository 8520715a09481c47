package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dhruvkb/plsschema/pkg/paths"
	"github.com/dhruvkb/plsschema/pkg/plserrors"
	"github.com/dhruvkb/plsschema/pkg/schema"
	"github.com/dhruvkb/plsschema/pkg/tracing"
	"github.com/dhruvkb/plsschema/pkg/validate"
)

const (
	SourceSuffix = ".yml"
	TargetSuffix = ".json"

	jsonIndent = "  "

	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Publisher publishes a YAML schema and its JSON derivative.
type Publisher struct {
	// Source is the path of the YAML schema.
	Source string
	// Dest is the directory the artifacts are written to.
	Dest string
	// Strict rejects an `$id` that does not end in [SourceSuffix] instead of
	// passing it through.
	Strict bool
	// Verify compiles the derived JSON schema before anything is written.
	Verify bool
	// Tracer times each publish. Nil disables tracing.
	Tracer tracing.Tracer
}

// Result describes a successful publish.
type Result struct {
	JSONPath string
	YAMLPath string
	SourceID string
	ID       string
}

// NewPublisher creates a [Publisher] for the given source file and
// destination directory.
func NewPublisher(source, dest string) *Publisher {
	return &Publisher{
		Source: source,
		Dest:   dest,
	}
}

// Publish reads, transforms and writes the schema. Both files are fully
// overwritten if they exist.
func (p *Publisher) Publish() (*Result, error) {
	span := p.tracer().StartSpan("publish")
	span.SetBaggageItem("source", p.Source)
	span.SetBaggageItem("dest", p.Dest)

	defer span.Finish()

	//nolint:gosec // G304 not relevant for client-side generation.
	src, err := os.ReadFile(p.Source)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", plserrors.ErrFileNotFound, p.Source)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrReadFile, err)
	}

	jsonData, res, err := p.Render(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Source, err)
	}

	if err := os.MkdirAll(p.Dest, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", plserrors.ErrWriteFile, err)
	}

	res.JSONPath = filepath.Join(p.Dest, paths.JSONFileName)
	if err := os.WriteFile(res.JSONPath, jsonData, filePerm); err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrWriteFile, err)
	}

	slog.Debug("wrote JSON schema", slog.String("path", res.JSONPath), slog.String("id", res.ID))

	res.YAMLPath = filepath.Join(p.Dest, paths.YAMLFileName)
	if err := os.WriteFile(res.YAMLPath, src, filePerm); err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrWriteFile, err)
	}

	slog.Debug("copied YAML schema", slog.String("path", res.YAMLPath))

	return res, nil
}

// Render derives the JSON artifact from YAML source bytes without touching
// the filesystem. The returned [Result] has no paths set.
func (p *Publisher) Render(src []byte) ([]byte, *Result, error) {
	span := p.tracer().StartSpan("render")
	defer span.Finish()

	doc, err := schema.Decode(src)
	if err != nil {
		return nil, nil, err
	}

	sourceID, err := doc.ID()
	if err != nil {
		return nil, nil, err
	}

	id, err := doc.RewriteIDSuffix(SourceSuffix, TargetSuffix)
	if err != nil {
		return nil, nil, err
	}

	if p.Strict && id == sourceID {
		return nil, nil, fmt.Errorf("%w: %q does not end in %q", plserrors.ErrInvalidID, sourceID, SourceSuffix)
	}

	if id == sourceID {
		slog.Debug("$id left unchanged", slog.String("id", id))
	}

	jsonData, err := doc.MarshalIndentJSON(jsonIndent)
	if err != nil {
		return nil, nil, err
	}

	if p.Verify {
		if _, err := validate.NewValidator(jsonData); err != nil {
			return nil, nil, err
		}
	}

	return jsonData, &Result{SourceID: sourceID, ID: id}, nil
}

//nolint:ireturn
func (p *Publisher) tracer() tracing.Tracer {
	if p.Tracer == nil {
		return tracing.NopTracer{}
	}

	return p.Tracer
}
