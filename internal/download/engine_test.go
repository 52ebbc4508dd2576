package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	ioutils "github.com/handiism/suno-downloader/internal/io"
	"github.com/handiism/suno-downloader/internal/model"
)

// fakeFetcher writes content to the destination, failing the first
// failures calls after writing a partial body. With refuse set, failing
// calls return before touching the destination.
type fakeFetcher struct {
	mu       sync.Mutex
	content  map[string]string
	failures int
	refuse   bool
	calls    int
}

func (f *fakeFetcher) DownloadFile(ctx context.Context, url, destPath string, _ func(written, total int64)) (int64, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	body := f.content[url]
	if fail && f.refuse {
		return 0, errors.New("connection refused")
	}
	if fail {
		if err := os.WriteFile(destPath, []byte(body[:len(body)/2]), 0644); err != nil {
			return 0, err
		}
		return 0, errors.New("connection reset")
	}

	if err := os.WriteFile(destPath, []byte(body), 0644); err != nil {
		return 0, err
	}
	return int64(len(body)), nil
}

func (f *fakeFetcher) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type eventLog struct {
	mu     sync.Mutex
	events []model.ProgressEvent
}

func (l *eventLog) record(e model.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(level model.ProgressLevel, substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.events {
		if e.Level == level && strings.Contains(e.Message, substr) {
			n++
		}
	}
	return n
}

func testRecord() model.Record {
	return model.Record{
		Filename:    "song-a.mp3",
		URL:         "http://example.com/a.mp3",
		Description: "  a lofi beat \n",
	}
}

func newTestEngine(dir string, fetcher Fetcher, maxAttempts int, log *eventLog) *Engine {
	var onProgress model.ProgressFunc
	if log != nil {
		onProgress = log.record
	}
	return NewEngine(fetcher, EngineOptions{
		OutputDir:   dir,
		MaxAttempts: maxAttempts,
	}, onProgress)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

func TestEngine_Process(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()
	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "AUDIO-A"}}
	engine := newTestEngine(dir, fetcher, 3, nil)

	outcome := engine.Process(context.Background(), rec)
	if outcome.Status != model.StatusSuccess {
		t.Fatalf("Status = %v, want success (err: %v)", outcome.Status, outcome.Err)
	}
	if outcome.Bytes != int64(len("AUDIO-A")) {
		t.Errorf("Bytes = %d, want %d", outcome.Bytes, len("AUDIO-A"))
	}

	if got := readFile(t, filepath.Join(dir, "song-a.mp3")); got != "AUDIO-A" {
		t.Errorf("audio = %q, want %q", got, "AUDIO-A")
	}
	if got := readFile(t, filepath.Join(dir, "song-a.txt")); got != "a lofi beat" {
		t.Errorf("description = %q, want %q", got, "a lofi beat")
	}
}

func TestEngine_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()

	binPath := filepath.Join(dir, "song-a.mp3")
	textPath := filepath.Join(dir, "song-a.txt")
	os.WriteFile(binPath, []byte("old audio"), 0644)
	os.WriteFile(textPath, []byte("old text"), 0644)

	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "NEW"}}
	outcome := newTestEngine(dir, fetcher, 3, nil).Process(context.Background(), rec)

	if outcome.Status != model.StatusSkipped {
		t.Fatalf("Status = %v, want skipped", outcome.Status)
	}
	if fetcher.callCount() != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.callCount())
	}
	if got := readFile(t, binPath); got != "old audio" {
		t.Errorf("audio modified: %q", got)
	}
	if got := readFile(t, textPath); got != "old text" {
		t.Errorf("description modified: %q", got)
	}
}

func TestEngine_OnlyTextExistsIsNotSkipped(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()
	os.WriteFile(filepath.Join(dir, "song-a.txt"), []byte("stale"), 0644)

	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "AUDIO"}}
	outcome := newTestEngine(dir, fetcher, 3, nil).Process(context.Background(), rec)

	if outcome.Status != model.StatusSuccess {
		t.Fatalf("Status = %v, want success", outcome.Status)
	}
	if got := readFile(t, filepath.Join(dir, "song-a.txt")); got != "a lofi beat" {
		t.Errorf("description = %q, want rewritten", got)
	}
}

func TestEngine_InvalidRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
	}{
		{"empty filename", model.Record{Filename: " ", URL: "http://x/a", Description: "d"}},
		{"empty url", model.Record{Filename: "a.mp3", URL: "", Description: "d"}},
		{"blank description", model.Record{Filename: "a.mp3", URL: "http://x/a", Description: "\t"}},
		{"path in filename", model.Record{Filename: "../a.mp3", URL: "http://x/a", Description: "d"}},
		{"text extension", model.Record{Filename: "notes.Txt", URL: "http://x/a", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fetcher := &fakeFetcher{content: map[string]string{}}
			outcome := newTestEngine(dir, fetcher, 3, nil).Process(context.Background(), tt.rec)

			if outcome.Status != model.StatusFailed {
				t.Fatalf("Status = %v, want failed", outcome.Status)
			}
			if !errors.Is(outcome.Err, ErrInvalidRecord) {
				t.Errorf("Err = %v, want ErrInvalidRecord", outcome.Err)
			}
			if fetcher.callCount() != 0 {
				t.Errorf("fetcher called %d times, want 0", fetcher.callCount())
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("output dir has %d entries, want 0", len(entries))
			}
		})
	}
}

func TestEngine_RetrySucceedsOnThirdAttempt(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()
	log := &eventLog{}
	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "FULL-AUDIO"}, failures: 2}

	outcome := newTestEngine(dir, fetcher, 3, log).Process(context.Background(), rec)

	if outcome.Status != model.StatusSuccess {
		t.Fatalf("Status = %v, want success (err: %v)", outcome.Status, outcome.Err)
	}
	if fetcher.callCount() != 3 {
		t.Errorf("fetcher called %d times, want 3", fetcher.callCount())
	}
	if n := log.count(model.LevelWarning, "Retrying"); n != 2 {
		t.Errorf("got %d retry notices, want 2", n)
	}
	if got := readFile(t, filepath.Join(dir, "song-a.mp3")); got != "FULL-AUDIO" {
		t.Errorf("audio = %q, want %q", got, "FULL-AUDIO")
	}
}

func TestEngine_RetriesExhausted(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()
	log := &eventLog{}
	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "FULL-AUDIO"}, failures: 10}

	outcome := newTestEngine(dir, fetcher, 3, log).Process(context.Background(), rec)

	if outcome.Status != model.StatusFailed {
		t.Fatalf("Status = %v, want failed", outcome.Status)
	}

	var transferErr *TransferError
	if !errors.As(outcome.Err, &transferErr) {
		t.Fatalf("Err = %v, want *TransferError", outcome.Err)
	}
	if transferErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", transferErr.Attempts)
	}
	if fetcher.callCount() != 3 {
		t.Errorf("fetcher called %d times, want 3", fetcher.callCount())
	}
	if n := log.count(model.LevelWarning, "Retrying"); n != 2 {
		t.Errorf("got %d retry notices, want 2", n)
	}
	if n := log.count(model.LevelError, "Failed to download"); n != 1 {
		t.Errorf("got %d failure events, want 1", n)
	}

	if _, err := os.Stat(filepath.Join(dir, "song-a.mp3")); !os.IsNotExist(err) {
		t.Errorf("partial audio file left behind (stat err: %v)", err)
	}
}

func TestEngine_FailedRequestKeepsUntouchedAudio(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()
	binPath := filepath.Join(dir, "song-a.mp3")
	if err := os.WriteFile(binPath, []byte("earlier audio"), 0644); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "AUDIO"}, failures: 10, refuse: true}
	outcome := newTestEngine(dir, fetcher, 2, nil).Process(context.Background(), rec)

	if outcome.Status != model.StatusFailed {
		t.Fatalf("Status = %v, want failed", outcome.Status)
	}
	if got := readFile(t, binPath); got != "earlier audio" {
		t.Errorf("audio = %q, want the untouched earlier file", got)
	}
	if ioutils.Exists(filepath.Join(dir, "song-a.txt")) {
		t.Error("description must not be left next to audio from an earlier run")
	}
}

func TestEngine_CancelledDuringCooldown(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord()
	fetcher := &fakeFetcher{content: map[string]string{rec.URL: "AUDIO"}, failures: 10}

	ctx, cancel := context.WithCancel(context.Background())
	engine := NewEngine(fetcher, EngineOptions{
		OutputDir:     dir,
		MaxAttempts:   3,
		RetryCooldown: 1 << 40,
	}, func(e model.ProgressEvent) {
		if strings.HasPrefix(e.Message, "Retrying") {
			cancel()
		}
	})

	outcome := engine.Process(ctx, rec)
	if outcome.Status != model.StatusFailed {
		t.Fatalf("Status = %v, want failed", outcome.Status)
	}
	if !errors.Is(outcome.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", outcome.Err)
	}
	if fetcher.callCount() != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.callCount())
	}
}

func TestEngine_SecondRunSkipsEverything(t *testing.T) {
	dir := t.TempDir()
	records := []model.Record{
		{Filename: "one.mp3", URL: "http://x/1", Description: "first"},
		{Filename: "two.mp3", URL: "http://x/2", Description: "second"},
	}
	fetcher := &fakeFetcher{content: map[string]string{"http://x/1": "ONE", "http://x/2": "TWO"}}
	engine := newTestEngine(dir, fetcher, 3, nil)

	for _, rec := range records {
		if o := engine.Process(context.Background(), rec); o.Status != model.StatusSuccess {
			t.Fatalf("first run %s: Status = %v, want success", rec.Filename, o.Status)
		}
	}
	for _, rec := range records {
		if o := engine.Process(context.Background(), rec); o.Status != model.StatusSkipped {
			t.Errorf("second run %s: Status = %v, want skipped", rec.Filename, o.Status)
		}
	}
	if fetcher.callCount() != 2 {
		t.Errorf("fetcher called %d times, want 2", fetcher.callCount())
	}
}
