// Package log builds [log/slog] handlers from command-line level and format
// strings.
//
// Handlers are backed by [github.com/charmbracelet/log]. Colours are only
// emitted when writing to a terminal.
package log
