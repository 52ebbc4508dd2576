package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/handiism/suno-downloader/internal/model"
)

func TestTagger_SaveTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night-drive-id-9f8e7.mp3")
	audioData := []byte("fake mpeg frames")
	if err := os.WriteFile(path, audioData, 0644); err != nil {
		t.Fatal(err)
	}

	rec := model.Record{
		Filename:    "night-drive-id-9f8e7.mp3",
		Description: "Prompt:\nsynthwave",
		Title:       "Night Drive",
	}
	artwork := []byte{0xff, 0xd8, 0xff, 0xd9}

	if err := NewTagger().SaveTags(path, rec, artwork); err != nil {
		t.Fatalf("SaveTags: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "Night Drive" {
		t.Errorf("Title = %q, want %q", tag.Title(), "Night Drive")
	}

	comments := tag.GetFrames(tag.CommonID("Comments"))
	if len(comments) != 1 {
		t.Fatalf("got %d comment frames, want 1", len(comments))
	}
	if cf, ok := comments[0].(id3v2.CommentFrame); !ok || cf.Text != rec.Description {
		t.Errorf("comment = %+v", comments[0])
	}

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pictures) != 1 {
		t.Errorf("got %d pictures, want 1", len(pictures))
	}
}

func TestTagger_TitleFallsBackToStem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song-a.mp3")
	if err := os.WriteFile(path, []byte("fake mpeg frames"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := model.Record{Filename: "song-a.mp3", Description: "d1"}
	if err := NewTagger().SaveTags(path, rec, nil); err != nil {
		t.Fatalf("SaveTags: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Title() != "song-a" {
		t.Errorf("Title = %q, want %q", tag.Title(), "song-a")
	}
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger().SaveTags(filepath.Join(t.TempDir(), "missing.mp3"), model.Record{Filename: "missing.mp3"}, nil)
	if err == nil {
		t.Error("expected error for missing file")
	}
}
