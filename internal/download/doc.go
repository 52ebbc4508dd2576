// Package download provides the download pipeline: a per-record Engine,
// a bounded-concurrency Scheduler and the Manager that ties them to a
// record source.
//
// # Manager
//
// The Manager coordinates a run:
//
//  1. Create the output directory
//  2. Read records from the feed or a CSV table
//  3. Download records concurrently
//  4. Optionally write a playlist of finished songs
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event model.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, manager.NewSource(false, "songs.csv")); err != nil {
//	    log.Fatal(err)
//	}
//
//	outcomes, err := manager.StartDownloads(ctx)
//
// # Engine
//
// For each record the Engine:
//
//  1. Rejects records with empty fields
//  2. Skips the record if both songs/<name>.mp3 and songs/<name>.txt exist
//  3. Writes the description to the .txt sidecar
//  4. Streams the audio to the .mp3 file, retrying with a fixed cooldown
//
// Because a finished record is detected by the presence of both files,
// re-running the program only downloads what is missing.
//
// # Concurrency
//
// The Scheduler runs at most settings.MaxConcurrentDownloads records at
// once and returns outcomes in input order.
package download
