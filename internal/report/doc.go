// Package report aggregates download outcomes into a run summary and
// renders it for the terminal.
//
// Example:
//
//	summary := report.Summarize(outcomes)
//	summary.Render(os.Stdout)
package report
