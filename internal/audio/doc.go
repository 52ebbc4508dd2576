// Package audio provides optional post-processing for downloaded songs:
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger()
//	err := tagger.SaveTags(path, rec, artworkJPEG)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(records)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
