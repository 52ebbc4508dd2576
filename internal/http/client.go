package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Common errors.
var (
	ErrNotFound     = errors.New("http: resource not found")
	ErrForbidden    = errors.New("http: access forbidden")
	ErrUnauthorized = errors.New("http: unauthorized")
	ErrServerError  = errors.New("http: server error")
	ErrIncomplete   = errors.New("http: response body shorter than Content-Length")
)

// DefaultChunkSize is the read buffer used when streaming downloads.
const DefaultChunkSize = 32 * 1024

// Options configures the HTTP client.
type Options struct {
	// UserAgent is sent with every request.
	// Default: "SunoDownloader"
	UserAgent string

	// Timeout bounds a single request, including reading the body.
	// Zero disables the timeout.
	Timeout time.Duration

	// ChunkSize is the size of each read while streaming a download.
	// Default: 32KiB
	ChunkSize int

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 16
	MaxIdleConnsPerHost int
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:           "SunoDownloader",
		Timeout:             10 * time.Minute,
		ChunkSize:           DefaultChunkSize,
		MaxIdleConnsPerHost: 16,
	}
}

// Client wraps HTTP operations used by the downloader.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - JSON/page fetches into memory (Get)
//   - Streaming file downloads in fixed-size chunks (DownloadFile)
//
// A single Client is safe for concurrent use; the underlying transport
// keeps a pool of connections so parallel downloads do not serialize.
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//
//	// Fetch a feed page
//	body, err := client.Get(ctx, "https://studio-api.suno.ai/api/feed/tracks")
//
//	// Download a song
//	n, err := client.DownloadFile(ctx, audioURL, "songs/song.mp3", nil)
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a new HTTP client with the given options.
// Zero-valued options fall back to DefaultOptions.
func NewClient(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaults.ChunkSize
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = defaults.MaxIdleConnsPerHost
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = opts.MaxIdleConnsPerHost

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// OnUpdate receives the bytes written so far and the expected total
// (-1 when the server did not send a Content-Length).
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if the request fails, the status is not 2xx, or
// reading the body fails. Use DownloadFile for large bodies.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// DownloadBytes downloads a small file (cover art) into memory.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}

// DownloadFile streams url to destPath and returns the number of bytes
// written.
//
// The destination is created or truncated before the first byte is
// written, so a retry always starts from an empty file. The body is read
// in ChunkSize pieces and never buffered in memory as a whole. The
// context is checked before every read.
//
// When the server announces a Content-Length and fewer bytes arrive,
// ErrIncomplete is returned.
//
// onProgress may be nil.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}

	copyErr := c.stream(ctx, pw, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return pw.Written, copyErr
	}
	if closeErr != nil {
		return pw.Written, closeErr
	}

	if pw.Total >= 0 && pw.Written != pw.Total {
		return pw.Written, fmt.Errorf("%w: got %d of %d bytes", ErrIncomplete, pw.Written, pw.Total)
	}

	return pw.Written, nil
}

// stream copies src to dst in fixed-size chunks.
func (c *Client) stream(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, c.opts.ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read: %w", readErr)
		}
	}
}

// do sends a GET request and checks the status code. The caller owns the
// response body on success.
func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if err := checkStatusCode(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w (%s)", err, resp.Status)
	}

	return resp, nil
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return ErrServerError
	default:
		return fmt.Errorf("http: unexpected status code %d", code)
	}
}
