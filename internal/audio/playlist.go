package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/suno-downloader/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines carrying the title.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistCreator generates a playlist for a set of downloaded songs.
//
// Entries are file names relative to the output directory, so the
// playlist must be written into that directory.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(records)
//	os.WriteFile(filepath.Join("songs", "songs"+FormatM3U.Extension()), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Night Drive
//	// night-drive-id-9f8e7.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only applies to FormatM3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for the given records.
func (p *PlaylistCreator) CreatePlaylist(records []model.Record) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(records)
	default:
		return p.createM3U(records)
	}
}

// createM3U generates an M3U playlist. Durations are unknown, so
// extended entries use -1.
func (p *PlaylistCreator) createM3U(records []model.Record) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, rec := range records {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", rec.DisplayName()))
		}
		sb.WriteString(filepath.Base(rec.Filename) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Song Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(records []model.Record) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, rec := range records {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(rec.Filename)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, rec.DisplayName()))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(records)))
	sb.WriteString("Version=2\n")

	return sb.String()
}
