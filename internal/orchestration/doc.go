// Package orchestration runs one or every strategy over an in-process world
// and compares the sums. It decouples the runs from presentation via the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
