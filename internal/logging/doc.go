// Package logging provides a unified logging interface for the addition engine.
// It abstracts the underlying logging implementation, allowing consistent logging
// across ranks and components while supporting multiple backends.
package logging
