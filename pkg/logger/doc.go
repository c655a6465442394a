// Package logger provides slog logger factories shared by the CLI and
// the pipeline. Logs go to stderr as JSON so that stdout stays clean
// for command output.
package logger
