// Package reconcile compares desired and current artifact values and either
// reports drift or writes the desired value.
//
// An [Artifact] is a pair of values of one type plus an equality test, a
// writer and a describer. Every synchronizer in monolink (project references,
// pinned versions, make-depend output) reduces its work to a list of
// artifacts; this package supplies the shared decision and the bounded
// parallel runner.
//
// # Modes
//
//   - [Lint]: unequal artifacts become [OutOfDate] results with detail lines
//   - [Modify]: unequal artifacts are written and become [Written] results
//
// Equal artifacts are [Unchanged] in both modes and are never written, so a
// second run in Modify mode after a successful first run writes nothing.
//
// # Failures
//
// Jobs compute their artifact lazily inside the runner. A job that fails to
// build or write is recorded as a failed [Result] without stopping the other
// jobs. [Report.Err] folds the results into a single error: failures first,
// then an OUT_OF_DATE error when any artifact drifted.
package reconcile
