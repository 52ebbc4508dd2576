package model

// Status is the terminal state of a processed Record.
type Status int

const (
	// StatusSuccess means both files were written during this run.
	StatusSuccess Status = iota

	// StatusSkipped means both files already existed and nothing was touched.
	StatusSkipped

	// StatusFailed means the record could not be processed. Outcome.Err
	// holds the reason.
	StatusFailed
)

// String returns a lower-case name for the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one Record.
//
// Outcomes are created once by the download engine and never modified
// afterwards.
type Outcome struct {
	Record Record
	Status Status

	// Err is non-nil only when Status is StatusFailed.
	Err error

	// Bytes is the number of audio bytes written for a successful download.
	Bytes int64
}

// Success returns a successful Outcome.
func Success(rec Record, written int64) Outcome {
	return Outcome{Record: rec, Status: StatusSuccess, Bytes: written}
}

// Skipped returns an Outcome for a record whose files already exist.
func Skipped(rec Record) Outcome {
	return Outcome{Record: rec, Status: StatusSkipped}
}

// Failed returns a failed Outcome carrying err.
func Failed(rec Record, err error) Outcome {
	return Outcome{Record: rec, Status: StatusFailed, Err: err}
}

// OK reports whether the outcome counts as a successful download.
// Skipped records count as successful.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess || o.Status == StatusSkipped
}
