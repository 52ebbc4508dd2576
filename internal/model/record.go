package model

import (
	"errors"
	"path/filepath"
	"strings"
)

// TextExtension is the extension of the sidecar description file.
const TextExtension = ".txt"

// Record errors.
var (
	ErrEmptyField      = errors.New("record has an empty required field")
	ErrInvalidFilename = errors.New("record filename is not a usable audio file name")
)

// Record represents a single song to download.
//
// Filename, URL and Description are required. The remaining fields are
// only populated when the record comes from the remote feed and are used
// for optional ID3 tagging.
type Record struct {
	// Filename is the target file name of the audio file, including its
	// extension (typically ".mp3"). It must be a single path element.
	Filename string

	// URL is where the audio is downloaded from.
	URL string

	// Description is written to the sidecar text file.
	Description string

	// ID is the feed identifier of the song, if known.
	ID string

	// Title is the human-readable song title, if known.
	Title string

	// ArtworkURL points at the cover image, if known.
	ArtworkURL string
}

// Validate checks that all required fields are present, that the
// filename cannot escape the output directory and that it does not use
// the sidecar extension.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Filename) == "" ||
		strings.TrimSpace(r.URL) == "" ||
		strings.TrimSpace(r.Description) == "" {
		return ErrEmptyField
	}

	name := r.Filename
	if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return ErrInvalidFilename
	}
	if strings.EqualFold(filepath.Ext(name), TextExtension) {
		return ErrInvalidFilename
	}

	return nil
}

// Stem returns the filename without its extension.
func (r Record) Stem() string {
	return strings.TrimSuffix(r.Filename, filepath.Ext(r.Filename))
}

// BinaryPath returns where the audio file is stored inside dir.
func (r Record) BinaryPath(dir string) string {
	return filepath.Join(dir, r.Filename)
}

// TextPath returns where the sidecar description is stored inside dir.
//
// The binary extension is replaced by TextExtension. A filename without
// an extension simply gets TextExtension appended. Validate rejects
// filenames that already end in TextExtension, so for a valid record the
// two paths differ.
func (r Record) TextPath(dir string) string {
	return filepath.Join(dir, r.Stem()+TextExtension)
}

// DisplayName returns the title when known, otherwise the filename.
func (r Record) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Filename
}
