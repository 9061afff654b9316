// Package analyzer turns a completed load test's sample records into a
// performance report and a pass/warn/fail verdict.
//
// The input is a [Set] of samples as read by the sample package, ordered by
// timestamp as the load-test harness recorded them:
//
//	set, err := sample.ReadFile("results.jtl", "")
//	report, err := analyzer.Analyze(set, threshold.DefaultBands())
//
// # Report
//
// The [Report] type carries request counts, success/error rates, response
// time statistics (mean, extrema, and HDR histogram percentiles), run
// duration, throughput, and the derived verdict. It is computed in a single
// pass and never mutated afterward.
//
// # Determinism
//
// Analyze is pure with respect to its measurements: the same sample set
// always produces the same numbers and verdict. Only the RunID, generated
// fresh per invocation for artifact correlation, differs between calls.
package analyzer
