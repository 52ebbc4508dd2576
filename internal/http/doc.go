// Package http provides the HTTP client shared by the feed reader and the
// download engine.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request timeouts
//   - Streaming downloads in fixed-size chunks
//   - Mapping of HTTP status codes to sentinel errors
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	// Fetch a JSON page
//	body, err := client.Get(ctx, feedURL)
//
//	// Stream a file to disk
//	n, err := client.DownloadFile(ctx, audioURL, "songs/song.mp3", func(written, total int64) {
//	    fmt.Printf("%d/%d\n", written, total)
//	})
//
// # Errors
//
// Non-2xx responses are reported as ErrNotFound, ErrForbidden,
// ErrUnauthorized, ErrServerError or a generic status error; use
// errors.Is to inspect them.
package http
