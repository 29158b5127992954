// Package logging provides the structured logger shared by wordgate's
// load balancer and counter backend processes.
package logging

import (
	"log/slog"
	"os"
)

type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type SlogLogger struct {
	l *slog.Logger
}

func New() *SlogLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &SlogLogger{l: slog.New(handler)}
}

// NewWithComponent tags every record with a "component" attribute, so the
// load balancer's and the backend's logs can share one aggregator without
// being confused for each other.
func NewWithComponent(component string) *SlogLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &SlogLogger{l: slog.New(handler).With("component", component)}
}

func (s *SlogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *SlogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

func (s *SlogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}
