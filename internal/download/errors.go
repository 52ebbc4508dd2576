package download

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a record is missing a required field
// or has an unusable filename. No files are touched for such records.
var ErrInvalidRecord = errors.New("invalid record")

// ErrNoRecords is returned by Manager.Initialize when the source produced
// nothing to download.
var ErrNoRecords = errors.New("no songs found to process")

// TransferError is returned when the audio could not be downloaded within
// the attempt budget.
type TransferError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("download failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// WriteError is returned when the sidecar description cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
