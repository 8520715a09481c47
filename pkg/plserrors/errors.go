package plserrors

import (
	"errors"
	"fmt"
)

var (
	// ErrRead indicates an error occurred while reading.
	ErrRead = errors.New("read")

	// ErrReadFile indicates an error occurred while reading a file.
	ErrReadFile = fmt.Errorf("file: %w", ErrRead)

	// ErrWrite indicates an error occurred while writing.
	ErrWrite = errors.New("write")

	// ErrWriteFile indicates an error occurred while writing a file.
	ErrWriteFile = fmt.Errorf("file: %w", ErrWrite)

	// ErrFileNotFound indicates a file wasn't found in the specified path.
	ErrFileNotFound = errors.New("file not found")

	// ErrResolvedOutsideRepo indicates a path resolved outside of the given root.
	ErrResolvedOutsideRepo = errors.New("resolved outside repository")

	// ErrDecodeYAML indicates the source could not be decoded as YAML.
	ErrDecodeYAML = errors.New("decode YAML")

	// ErrInvalidDocument indicates the decoded YAML is not a usable schema document.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrMissingID indicates the document has no string `$id` field.
	ErrMissingID = errors.New("missing $id")

	// ErrInvalidID indicates the `$id` field does not have the expected suffix.
	ErrInvalidID = errors.New("invalid $id")

	// ErrJSONMarshal indicates an error occurred while marshaling JSON.
	ErrJSONMarshal = errors.New("marshal JSON")

	// ErrCompileSchema indicates a JSON Schema could not be compiled.
	ErrCompileSchema = errors.New("compile JSON Schema")

	// ErrValidation indicates a document does not satisfy a JSON Schema.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArguments indicates invalid arguments were provided.
	ErrInvalidArguments = errors.New("invalid arguments")
)
