package paths

import (
	"path/filepath"
)

const (
	// DefaultSourcePath is the hand-maintained YAML schema, relative to the
	// repository root.
	DefaultSourcePath = "schemas/pls_config.yml"

	// DefaultDestDir is the directory served as static assets by the
	// documentation site, relative to the repository root.
	DefaultDestDir = "docs/public/schemas"

	// JSONFileName is the name of the published JSON schema.
	JSONFileName = "pls_config.json"

	// YAMLFileName is the name of the published YAML schema.
	YAMLFileName = "pls_config.yml"
)

// Resolve returns p unchanged if it is absolute. Otherwise p is joined to the
// repository root containing base, or to base itself when base is not inside
// a repository.
func Resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}

	root, err := FindRepoRoot(base)
	if err != nil {
		root = base
	}

	return filepath.Join(root, p)
}
