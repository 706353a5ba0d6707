// Package memory provides in-memory implementations of driven ports.
// They back the CLI when persistence is disabled and serve as fakes in tests.
package memory
