package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/handiism/suno-downloader/internal/model"
)

// Summary aggregates the outcomes of a download run.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int

	// Bytes is the number of audio bytes downloaded during the run.
	Bytes int64

	// Failures holds the failed outcomes in input order.
	Failures []model.Outcome
}

// Summarize counts outcomes by status.
func Summarize(outcomes []model.Outcome) Summary {
	return Summary{
		Total:     len(outcomes),
		Succeeded: lo.CountBy(outcomes, func(o model.Outcome) bool { return o.Status == model.StatusSuccess }),
		Skipped:   lo.CountBy(outcomes, func(o model.Outcome) bool { return o.Status == model.StatusSkipped }),
		Failed:    lo.CountBy(outcomes, func(o model.Outcome) bool { return o.Status == model.StatusFailed }),
		Bytes:     lo.SumBy(outcomes, func(o model.Outcome) int64 { return o.Bytes }),
		Failures: lo.Filter(outcomes, func(o model.Outcome, _ int) bool {
			return o.Status == model.StatusFailed
		}),
	}
}

// Successful returns the number of records that ended with both files on
// disk. Records skipped because they were already complete count too.
func (s Summary) Successful() int {
	return s.Succeeded + s.Skipped
}

// Complete reports whether every record succeeded.
func (s Summary) Complete() bool {
	return s.Successful() == s.Total
}

// Render writes the human-readable summary to w.
//
// Output format:
//
//	Download complete!
//	Successfully downloaded: 3/4 songs
//	Failed downloads: 1
//	+------------+--------------------------------+
//	|    FILE    |             REASON             |
//	+------------+--------------------------------+
//	| song-b.mp3 | download failed after 3 ...    |
//	+------------+--------------------------------+
func (s Summary) Render(w io.Writer) {
	heading := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	fmt.Fprintln(w)
	heading.Fprintln(w, "Download complete!")
	good.Fprintf(w, "Successfully downloaded: %d/%d songs\n", s.Successful(), s.Total)

	if s.Complete() {
		return
	}

	bad.Fprintf(w, "Failed downloads: %d\n", s.Total-s.Successful())
	if len(s.Failures) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Reason"})
	table.SetAutoWrapText(false)
	for _, o := range s.Failures {
		table.Append([]string{o.Record.Filename, failureReason(o)})
	}
	table.Render()
}

func failureReason(o model.Outcome) string {
	if o.Err == nil {
		return "unknown error"
	}
	return o.Err.Error()
}
