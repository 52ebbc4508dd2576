package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/handiism/suno-downloader/internal/audio"
	"github.com/handiism/suno-downloader/internal/config"
	"github.com/handiism/suno-downloader/internal/http"
	ioutils "github.com/handiism/suno-downloader/internal/io"
	"github.com/handiism/suno-downloader/internal/model"
	"github.com/handiism/suno-downloader/internal/source"
)

// Manager coordinates a download run: it reads records from a source,
// fans them out to the engine and keeps run-wide counters.
type Manager struct {
	settings   *config.Settings
	httpClient *http.Client
	engine     *Engine
	scheduler  *Scheduler
	playlist   *audio.PlaylistCreator

	records        []model.Record
	receivedBytes  atomic.Int64
	processedFiles atomic.Int32
	totalFiles     int32

	onProgress model.ProgressFunc
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(model.ProgressEvent)) *Manager {
	m := &Manager{
		settings:   settings,
		httpClient: http.NewClient(settings.ToHTTPOptions()),
		playlist:   audio.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended),
		onProgress: onProgress,
	}

	m.engine = NewEngine(m.httpClient, EngineOptions{
		OutputDir:      settings.OutputDir,
		MaxAttempts:    settings.DownloadMaxAttempts,
		RetryCooldown:  settings.RetryCooldown(),
		TagAudio:       settings.TagAudio,
		EmbedArtwork:   settings.EmbedArtwork,
		ArtworkMaxSize: settings.ArtworkMaxSize,
	}, m.onProgress)
	m.scheduler = NewScheduler(ProcessorFunc(m.processRecord), settings.MaxConcurrentDownloads)

	return m
}

// NewSource returns the feed when fetchAll is set, otherwise a table
// reading csvPath (falling back to the configured CSV path).
func (m *Manager) NewSource(fetchAll bool, csvPath string) source.Source {
	if fetchAll {
		return source.NewFeed(m.httpClient, m.settings.FeedURL, m.settings.MaxFeedPages, m.onProgress)
	}
	if csvPath == "" {
		csvPath = m.settings.CSVPath
	}
	return source.NewTable(csvPath)
}

// Initialize creates the output directory and loads the records to
// download. It returns ErrNoRecords when the source yields nothing.
func (m *Manager) Initialize(ctx context.Context, src source.Source) error {
	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	records, err := src.Records(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNoRecords
	}

	m.records = records
	m.totalFiles = int32(len(records))
	m.onProgress.Emit(model.LevelInfo, fmt.Sprintf("Found %d songs to process", len(records)))

	return nil
}

// Records returns the records loaded by Initialize.
func (m *Manager) Records() []model.Record {
	return m.records
}

// StartDownloads processes all initialized records and returns one
// outcome per record. The error is non-nil only when ctx was cancelled.
func (m *Manager) StartDownloads(ctx context.Context) ([]model.Outcome, error) {
	outcomes := m.scheduler.Run(ctx, m.records)

	if m.settings.CreatePlaylist {
		m.writePlaylist(ctx, outcomes)
	}

	return outcomes, ctx.Err()
}

// GetProgress returns the bytes received and the processed/total record counts.
func (m *Manager) GetProgress() (received int64, filesProcessed, filesTotal int32) {
	return m.receivedBytes.Load(), m.processedFiles.Load(), m.totalFiles
}

func (m *Manager) processRecord(ctx context.Context, rec model.Record) model.Outcome {
	outcome := m.engine.Process(ctx, rec)
	m.receivedBytes.Add(outcome.Bytes)
	m.processedFiles.Add(1)
	return outcome
}

func (m *Manager) writePlaylist(ctx context.Context, outcomes []model.Outcome) {
	var done []model.Record
	for _, o := range outcomes {
		if o.OK() {
			done = append(done, o.Record)
		}
	}
	if len(done) == 0 {
		return
	}

	name := m.settings.PlaylistFileName + m.playlist.Format().Extension()
	path := filepath.Join(m.settings.OutputDir, name)
	content := m.playlist.CreatePlaylist(done)

	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Error creating playlist: %v", err))
		return
	}
	m.onProgress.Emit(model.LevelSuccess, fmt.Sprintf("Created playlist %s", name))
}
