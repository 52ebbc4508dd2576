package audio

import (
	"github.com/bogem/id3v2"

	"github.com/handiism/suno-downloader/internal/model"
)

// Tagger writes ID3 tags to downloaded MP3 files.
//
// The title frame (TIT2) is set from the record title, falling back to
// the filename stem, and the record description is stored as a comment
// (COMM). Cover art is embedded as the front cover picture when provided.
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.SaveTags("songs/night-drive-id-9f8e7.mp3", rec, artworkJPEG)
type Tagger struct {
	language string
}

// NewTagger creates a new Tagger writing English-language comment frames.
func NewTagger() *Tagger {
	return &Tagger{language: "eng"}
}

// SaveTags writes ID3 tags to the file at path.
//
// Existing tags are parsed and updated in place; files without a tag get
// a new one. artwork must be JPEG data, or nil to leave pictures alone.
func (t *Tagger) SaveTags(path string, rec model.Record, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	title := rec.Title
	if title == "" {
		title = rec.Stem()
	}
	tag.SetTitle(title)

	tag.DeleteFrames(tag.CommonID("Comments"))
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    t.language,
		Description: "",
		Text:        rec.Description,
	})

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
