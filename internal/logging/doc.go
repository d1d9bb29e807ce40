// Package logging configures slog for garage.
//
// It provides console and JSON handlers, multi-destination output (stdout plus
// an optional log file under the configured log directory), typed attribute
// helpers, and component loggers so every subsystem tags its records uniformly.
package logging
