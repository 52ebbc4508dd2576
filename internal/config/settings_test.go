package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/suno-downloader/internal/audio"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.OutputDir != "songs" {
		t.Errorf("OutputDir = %q, want songs", s.OutputDir)
	}
	if s.CSVPath != "songs.csv" {
		t.Errorf("CSVPath = %q, want songs.csv", s.CSVPath)
	}
	if s.MaxConcurrentDownloads != 4 {
		t.Errorf("MaxConcurrentDownloads = %d, want 4", s.MaxConcurrentDownloads)
	}
	if s.DownloadMaxAttempts != 3 {
		t.Errorf("DownloadMaxAttempts = %d, want 3", s.DownloadMaxAttempts)
	}
	if s.RetryCooldown() != 2*time.Second {
		t.Errorf("RetryCooldown() = %v, want 2s", s.RetryCooldown())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.MaxConcurrentDownloads != 4 {
		t.Errorf("expected defaults, got %+v", s)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "suno.json", `{"output_dir": "out", "max_concurrent_downloads": 8}`},
		{"yaml", "suno.yaml", "output_dir: out\nmax_concurrent_downloads: 8\n"},
		{"yml", "suno.yml", "output_dir: out\nmax_concurrent_downloads: 8\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if s.OutputDir != "out" {
				t.Errorf("OutputDir = %q, want out", s.OutputDir)
			}
			if s.MaxConcurrentDownloads != 8 {
				t.Errorf("MaxConcurrentDownloads = %d, want 8", s.MaxConcurrentDownloads)
			}
			// Untouched values keep their defaults.
			if s.DownloadMaxAttempts != 3 {
				t.Errorf("DownloadMaxAttempts = %d, want 3", s.DownloadMaxAttempts)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"cfg/suno.json", "cfg/suno.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			s := DefaultSettings()
			s.OutputDir = "music"
			s.TagAudio = true
			if err := s.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if loaded.OutputDir != "music" || !loaded.TagAudio {
				t.Errorf("round trip lost values: %+v", loaded)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SUNO_OUTPUT_DIR", "env-songs")
	t.Setenv("SUNO_MAX_CONCURRENT_DOWNLOADS", "2")
	t.Setenv("SUNO_DOWNLOAD_RETRY_COOLDOWN", "0.5")
	t.Setenv("SUNO_TAG_AUDIO", "1")

	s := DefaultSettings()
	if err := s.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if s.OutputDir != "env-songs" {
		t.Errorf("OutputDir = %q", s.OutputDir)
	}
	if s.MaxConcurrentDownloads != 2 {
		t.Errorf("MaxConcurrentDownloads = %d", s.MaxConcurrentDownloads)
	}
	if s.RetryCooldown() != 500*time.Millisecond {
		t.Errorf("RetryCooldown() = %v", s.RetryCooldown())
	}
	if !s.TagAudio {
		t.Error("TagAudio should be enabled")
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("SUNO_MAX_CONCURRENT_DOWNLOADS", "many")
	if err := DefaultSettings().LoadFromEnv(); err == nil {
		t.Error("expected error for non-numeric worker count")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"no output dir", func(s *Settings) { s.OutputDir = " " }},
		{"zero workers", func(s *Settings) { s.MaxConcurrentDownloads = 0 }},
		{"zero attempts", func(s *Settings) { s.DownloadMaxAttempts = 0 }},
		{"negative cooldown", func(s *Settings) { s.DownloadRetryCooldown = -1 }},
		{"zero chunk", func(s *Settings) { s.ChunkSize = 0 }},
		{"bad playlist", func(s *Settings) { s.PlaylistFormat = "wpl" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestToPlaylistFormat(t *testing.T) {
	s := DefaultSettings()
	if s.ToPlaylistFormat() != audio.FormatM3U {
		t.Error("default playlist format should be M3U")
	}
	s.PlaylistFormat = "pls"
	if s.ToPlaylistFormat() != audio.FormatPLS {
		t.Error("pls should map to FormatPLS")
	}
}
