// Package cli renders runs on the terminal: a spinner while strategies
// run, a comparison table, the result summary and quiet-mode output.
package cli
