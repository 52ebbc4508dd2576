// Package source produces the list of records to download.
//
// Two implementations of Source are provided:
//
//   - Feed pages through the remote song feed using an opaque cursor.
//   - Table reads a local CSV file with filename, url and description
//     columns.
//
// # Feed
//
//	feed := source.NewFeed(client, source.DefaultFeedURL, 500, onProgress)
//	records, err := feed.Records(ctx)
//
// Feed errors (network, HTTP status, malformed JSON) end pagination early
// and are reported through the progress callback; the records gathered so
// far are still returned.
//
// # Table
//
//	table := source.NewTable("songs.csv")
//	records, err := table.Records(ctx)
//	if errors.Is(err, source.ErrTableNotFound) {
//	    // report and exit
//	}
package source
