// Package model defines the core data structures used throughout
// the suno-downloader application.
//
// # Record
//
// Record is the normalized unit of work handed to the download engine,
// regardless of whether it came from the remote feed or a local table:
//
//	rec := model.Record{
//	    Filename:    "my-song-id-1a2b3.mp3",
//	    URL:         "https://cdn.example.com/1a2b3.mp3",
//	    Description: "Original filename: 1a2b3.mp3",
//	}
//	fmt.Println(rec.BinaryPath("songs")) // songs/my-song-id-1a2b3.mp3
//	fmt.Println(rec.TextPath("songs"))   // songs/my-song-id-1a2b3.txt
//
// # Outcome
//
// Every processed Record produces exactly one Outcome with a Status of
// StatusSuccess, StatusSkipped or StatusFailed.
//
// # Progress Events
//
// Components report what they are doing through ProgressEvent values
// passed to a callback; they never print directly.
package model
