package tracing

import (
	"context"
	"log/slog"
	"time"
)

var (
	_ Tracer = LoggingTracer{}
	_ Tracer = NopTracer{}
	_ Span   = &loggingSpan{}
)

// Tracer starts spans.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is a single timed operation.
type Span interface {
	SetBaggageItem(key string, value any)
	Finish()
}

// LoggingTracer logs finished spans at debug level.
type LoggingTracer struct {
	logger *slog.Logger
}

func NewLoggingTracer(logger *slog.Logger) *LoggingTracer {
	return &LoggingTracer{
		logger: logger,
	}
}

//nolint:ireturn
func (l LoggingTracer) StartSpan(operationName string) Span {
	logger := l.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &loggingSpan{
		logger:        logger,
		operationName: operationName,
		start:         time.Now(),
	}
}

type loggingSpan struct {
	start         time.Time
	logger        *slog.Logger
	operationName string
	baggage       []any
}

func (s *loggingSpan) Finish() {
	attrs := append([]any{}, s.baggage...)
	attrs = append(attrs, "operation_name", s.operationName, "time_ms", time.Since(s.start).Seconds()*1e3)
	s.logger.Log(context.Background(), slog.LevelDebug, "trace", attrs...)
}

func (s *loggingSpan) SetBaggageItem(key string, value any) {
	s.baggage = append(s.baggage, key, value)
}

// NopTracer discards all spans.
type NopTracer struct{}

//nolint:ireturn
func (NopTracer) StartSpan(string) Span {
	return nopSpan{}
}

type nopSpan struct{}

func (nopSpan) SetBaggageItem(string, any) {}

func (nopSpan) Finish() {}
