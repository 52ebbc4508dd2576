package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/handiism/suno-downloader/internal/audio"
	ioutils "github.com/handiism/suno-downloader/internal/io"
	"github.com/handiism/suno-downloader/internal/model"
)

// Fetcher is the transport used by the Engine. *http.Client implements it.
type Fetcher interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error)
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// OutputDir receives the audio and sidecar files.
	OutputDir string

	// MaxAttempts is the total number of download attempts per record.
	MaxAttempts int

	// RetryCooldown is the fixed wait between attempts.
	RetryCooldown time.Duration

	// TagAudio writes ID3 title and comment frames after a download.
	TagAudio bool

	// EmbedArtwork also embeds the record's cover art when tagging.
	EmbedArtwork bool

	// ArtworkMaxSize bounds the embedded cover in pixels; 0 keeps its size.
	ArtworkMaxSize int
}

// Engine downloads a single record: it writes the sidecar description and
// streams the audio file, retrying failed transfers.
//
// An Engine holds no per-record state and can be shared by any number of
// goroutines.
type Engine struct {
	fetcher    Fetcher
	opts       EngineOptions
	tagger     *audio.Tagger
	images     *ioutils.ImageService
	onProgress model.ProgressFunc
}

// NewEngine creates an Engine. MaxAttempts below one is treated as one.
func NewEngine(fetcher Fetcher, opts EngineOptions, onProgress model.ProgressFunc) *Engine {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Engine{
		fetcher:    fetcher,
		opts:       opts,
		tagger:     audio.NewTagger(),
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}
}

// Process handles one record and reports what happened.
//
// When both the audio and the sidecar file already exist the record is
// skipped without touching either file. Otherwise the description is
// written (replacing any previous content) and the audio is downloaded.
// Errors never escape; they are returned inside a failed Outcome.
func (e *Engine) Process(ctx context.Context, rec model.Record) model.Outcome {
	if err := rec.Validate(); err != nil {
		e.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Skipping row with empty fields: %q", rec.Filename))
		return model.Failed(rec, fmt.Errorf("%w: %w", ErrInvalidRecord, err))
	}

	if err := ctx.Err(); err != nil {
		return model.Failed(rec, err)
	}

	binPath := rec.BinaryPath(e.opts.OutputDir)
	textPath := rec.TextPath(e.opts.OutputDir)

	if ioutils.AllExist(binPath, textPath) {
		e.onProgress.Emit(model.LevelInfo, fmt.Sprintf("Skipping existing file: %s", rec.Filename))
		return model.Skipped(rec)
	}

	description := strings.TrimSpace(rec.Description)
	if err := ioutils.WriteFile(ctx, textPath, []byte(description)); err != nil {
		e.onProgress.Emit(model.LevelError, fmt.Sprintf("Error processing song %s: %v", rec.Filename, err))
		return model.Failed(rec, &WriteError{Path: textPath, Err: err})
	}

	written, err := e.download(ctx, rec, binPath)
	if err != nil {
		// An audio file kept from before must not pair up with the new
		// sidecar, or the next run would skip the record as complete.
		if ioutils.Exists(binPath) {
			_ = os.Remove(textPath)
		}
		return model.Failed(rec, err)
	}

	if e.opts.TagAudio {
		e.tag(ctx, rec, binPath)
	}

	e.onProgress.Emit(model.LevelVerbose, fmt.Sprintf("Downloaded: %s", rec.Filename))
	return model.Success(rec, written)
}

// download fetches the audio with retries. Once the attempts are
// exhausted, a file written by one of them is removed so the next run
// starts over instead of mistaking it for a finished download. A file
// that was already on disk and that no attempt reached is left alone.
func (e *Engine) download(ctx context.Context, rec model.Record, binPath string) (int64, error) {
	before, _ := os.Stat(binPath)

	var lastErr error
	attempts := 0

	for attempts < e.opts.MaxAttempts {
		attempts++

		written, err := e.fetcher.DownloadFile(ctx, rec.URL, binPath, nil)
		if err == nil {
			return written, nil
		}
		lastErr = err

		if attempts >= e.opts.MaxAttempts || ctx.Err() != nil {
			break
		}

		e.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Retrying %s (Attempt %d/%d): %v",
			rec.Filename, attempts+1, e.opts.MaxAttempts, err))
		if err := e.waitForRetry(ctx); err != nil {
			lastErr = err
			break
		}
	}

	if fileTouched(before, binPath) {
		if err := os.Remove(binPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Could not remove partial file %s: %v", binPath, err))
		}
	}

	e.onProgress.Emit(model.LevelError, fmt.Sprintf("Failed to download %s: %v", rec.Filename, lastErr))
	return 0, &TransferError{URL: rec.URL, Attempts: attempts, Err: lastErr}
}

// fileTouched reports whether path was created or rewritten since before
// was taken. A nil before means the file did not exist.
func fileTouched(before os.FileInfo, path string) bool {
	after, err := os.Stat(path)
	if err != nil {
		return false
	}
	if before == nil {
		return true
	}
	return after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime())
}

func (e *Engine) waitForRetry(ctx context.Context) error {
	if e.opts.RetryCooldown <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(e.opts.RetryCooldown)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// tag writes ID3 metadata. Failures are reported as warnings only; the
// audio itself was downloaded successfully.
func (e *Engine) tag(ctx context.Context, rec model.Record, binPath string) {
	var artwork []byte
	if e.opts.EmbedArtwork && rec.ArtworkURL != "" {
		data, err := e.fetcher.DownloadBytes(ctx, rec.ArtworkURL)
		if err == nil {
			data, err = e.images.PrepareArtwork(ctx, data, e.opts.ArtworkMaxSize)
		}
		if err != nil {
			e.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Error downloading artwork for %s: %v", rec.Filename, err))
		} else {
			artwork = data
		}
	}

	if err := e.tagger.SaveTags(binPath, rec, artwork); err != nil {
		e.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Error tagging %s: %v", rec.Filename, err))
	}
}
