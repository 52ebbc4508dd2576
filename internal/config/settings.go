package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/suno-downloader/internal/audio"
	"github.com/handiism/suno-downloader/internal/http"
	"github.com/handiism/suno-downloader/internal/source"
)

// envPrefix is the prefix of environment variables read by LoadFromEnv.
const envPrefix = "SUNO_"

// Settings holds all configuration options.
type Settings struct {
	// Source settings
	FeedURL      string `json:"feed_url" yaml:"feed_url"`
	MaxFeedPages int    `json:"max_feed_pages" yaml:"max_feed_pages"`
	CSVPath      string `json:"csv_path" yaml:"csv_path"`

	// Download settings
	OutputDir              string  `json:"output_dir" yaml:"output_dir"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`
	DownloadMaxAttempts    int     `json:"download_max_attempts" yaml:"download_max_attempts"`
	DownloadRetryCooldown  float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	ChunkSize              int     `json:"chunk_size" yaml:"chunk_size"`
	RequestTimeout         float64 `json:"request_timeout" yaml:"request_timeout"`
	UserAgent              string  `json:"user_agent" yaml:"user_agent"`

	// Tag settings
	TagAudio       bool `json:"tag_audio" yaml:"tag_audio"`
	EmbedArtwork   bool `json:"embed_artwork" yaml:"embed_artwork"`
	ArtworkMaxSize int  `json:"artwork_max_size" yaml:"artwork_max_size"`

	// Playlist settings
	CreatePlaylist   bool   `json:"create_playlist" yaml:"create_playlist"`
	PlaylistFormat   string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls
	PlaylistFileName string `json:"playlist_file_name" yaml:"playlist_file_name"`
	M3UExtended      bool   `json:"m3u_extended" yaml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FeedURL:      source.DefaultFeedURL,
		MaxFeedPages: 1000,
		CSVPath:      "songs.csv",

		OutputDir:              "songs",
		MaxConcurrentDownloads: 4,
		DownloadMaxAttempts:    3,
		DownloadRetryCooldown:  2,
		ChunkSize:              http.DefaultChunkSize,
		RequestTimeout:         600,
		UserAgent:              "SunoDownloader",

		TagAudio:       false,
		EmbedArtwork:   false,
		ArtworkMaxSize: 1000,

		CreatePlaylist:   false,
		PlaylistFormat:   "m3u",
		PlaylistFileName: "songs",
		M3UExtended:      true,
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension
// (.yaml/.yml for YAML, anything else for JSON). Values missing from the
// file keep their defaults. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings, err := LoadFile(path)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultSettings(), nil
	}
	return settings, err
}

// ErrConfigNotFound is returned by LoadFile when the file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// LoadFile is like Load but fails with ErrConfigNotFound when the file is
// missing. Use it for paths given explicitly by the user.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadFromEnv overrides settings from SUNO_* environment variables.
func (s *Settings) LoadFromEnv() error {
	if v := os.Getenv(envPrefix + "FEED_URL"); v != "" {
		s.FeedURL = v
	}
	if v := os.Getenv(envPrefix + "CSV_PATH"); v != "" {
		s.CSVPath = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		s.OutputDir = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		s.UserAgent = v
	}

	ints := map[string]*int{
		"MAX_FEED_PAGES":           &s.MaxFeedPages,
		"MAX_CONCURRENT_DOWNLOADS": &s.MaxConcurrentDownloads,
		"DOWNLOAD_MAX_ATTEMPTS":    &s.DownloadMaxAttempts,
		"CHUNK_SIZE":               &s.ChunkSize,
	}
	for name, dst := range ints {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	floats := map[string]*float64{
		"DOWNLOAD_RETRY_COOLDOWN": &s.DownloadRetryCooldown,
		"REQUEST_TIMEOUT":         &s.RequestTimeout,
	}
	for name, dst := range floats {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
		}
		*dst = f
	}

	if v := os.Getenv(envPrefix + "TAG_AUDIO"); v != "" {
		s.TagAudio = v == "true" || v == "1"
	}

	return nil
}

// Validate checks that the settings can drive a download run.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.OutputDir) == "" {
		return errors.New("config: output_dir is required")
	}
	if s.MaxConcurrentDownloads <= 0 {
		return errors.New("config: max_concurrent_downloads must be positive")
	}
	if s.DownloadMaxAttempts <= 0 {
		return errors.New("config: download_max_attempts must be positive")
	}
	if s.DownloadRetryCooldown < 0 {
		return errors.New("config: download_retry_cooldown must not be negative")
	}
	if s.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if s.RequestTimeout < 0 {
		return errors.New("config: request_timeout must not be negative")
	}
	switch s.PlaylistFormat {
	case "", "m3u", "pls":
	default:
		return fmt.Errorf("config: unknown playlist_format %q", s.PlaylistFormat)
	}
	return nil
}

// RetryCooldown returns the wait between download attempts.
func (s *Settings) RetryCooldown() time.Duration {
	return seconds(s.DownloadRetryCooldown)
}

// ToHTTPOptions converts settings to http.Options.
func (s *Settings) ToHTTPOptions() http.Options {
	opts := http.DefaultOptions()
	opts.UserAgent = s.UserAgent
	opts.ChunkSize = s.ChunkSize
	opts.Timeout = seconds(s.RequestTimeout)
	if s.MaxConcurrentDownloads > opts.MaxIdleConnsPerHost {
		opts.MaxIdleConnsPerHost = s.MaxConcurrentDownloads
	}
	return opts
}

// ToPlaylistFormat converts the configured playlist format.
func (s *Settings) ToPlaylistFormat() audio.PlaylistFormat {
	if s.PlaylistFormat == "pls" {
		return audio.FormatPLS
	}
	return audio.FormatM3U
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
