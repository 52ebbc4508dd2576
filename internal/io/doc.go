// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Write the sidecar description, replacing any previous content
//	err := ioutils.WriteFile(ctx, "songs/my-song.txt", []byte("Prompt: ..."))
//
//	// Completion marker check used for idempotent reruns
//	done := ioutils.AllExist("songs/my-song.mp3", "songs/my-song.txt")
//
//	// Ensure the output directory exists
//	err := ioutils.EnsureDir("songs")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames
// derived from remote titles:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService prepares cover art before it is embedded in ID3 tags:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
