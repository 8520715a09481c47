// Package paths locates the repository root and the default schema source and
// destination paths within it.
package paths
