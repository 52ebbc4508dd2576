package dto

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	ioutils "github.com/handiism/suno-downloader/internal/io"
	"github.com/handiism/suno-downloader/internal/model"
)

const (
	idFragmentLength   = 5
	defaultDescription = "No description available"
	audioExtension     = ".mp3"
)

// FeedItem is one entry of the feed's items array.
type FeedItem struct {
	ID          string
	Title       string
	Description string
	AudioURL    string
	ImageURL    string
}

// FeedItemFromJSON extracts the fields used by the downloader.
// Missing or null fields become empty strings.
func FeedItemFromJSON(item gjson.Result) FeedItem {
	image := item.Get("image_large_url").String()
	if image == "" {
		image = item.Get("image_url").String()
	}
	return FeedItem{
		ID:          item.Get("id").String(),
		Title:       item.Get("title").String(),
		Description: item.Get("description").String(),
		AudioURL:    item.Get("audio_url").String(),
		ImageURL:    image,
	}
}

// ToRecord converts the item to a record. It returns false when the item
// has no id.
//
// The filename is the lower-cased title with spaces turned into hyphens,
// followed by "-id-" and the first five characters of the id, so songs
// sharing a title do not collide.
func (fi FeedItem) ToRecord() (model.Record, bool) {
	id := strings.TrimSpace(fi.ID)
	if id == "" {
		return model.Record{}, false
	}

	title := strings.TrimSpace(fi.Title)
	if title == "" {
		title = id
	}

	description := fi.Description
	if strings.TrimSpace(description) == "" {
		description = defaultDescription
	}

	return model.Record{
		Filename:    FileName(title, id),
		URL:         fi.AudioURL,
		Description: fmt.Sprintf("Original filename: %s%s\n\nPrompt:\n%s", id, audioExtension, description),
		ID:          id,
		Title:       title,
		ArtworkURL:  fi.ImageURL,
	}, true
}

// FileName builds the target filename for a song.
func FileName(title, id string) string {
	fragment := id
	if len(fragment) > idFragmentLength {
		fragment = fragment[:idFragmentLength]
	}
	stem := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	return ioutils.SanitizeFileName(stem) + "-id-" + fragment + audioExtension
}
