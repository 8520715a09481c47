// Package tracing provides lightweight spans that report the duration of an
// operation through [log/slog].
package tracing
