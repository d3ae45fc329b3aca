// Package shared groups helpers used by more than one package.
//
// The testutil subpackage provides a log-capturing slog handler and
// spreadsheet fixtures (xlsx and csv bytes) for tests. It must not be
// imported from production code.
package shared
