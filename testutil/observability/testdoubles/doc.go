// Package testdoubles provides spies for the observability ports: a contextual logger,
// a slog.Handler, a metrics collector and a tracing collector. All of them are safe for concurrent use.
package testdoubles
