// Package logging provides concrete implementations of the nexgen.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr with thread-safe output
//   - FileLogger: Persists the record of one check-and-repair pass to a log file
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
// Loggers are handed to the assembler and checker explicitly, scoped to one
// operation; there is no process-wide logging state.
package logging
