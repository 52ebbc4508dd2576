package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/handiism/suno-downloader/internal/http"
	"github.com/handiism/suno-downloader/internal/model"
	"github.com/handiism/suno-downloader/internal/source/dto"
)

// DefaultFeedURL is the song feed endpoint.
const DefaultFeedURL = "https://studio-api.suno.ai/api/feed/tracks"

// cursorKeys are the response fields that may hold the next page cursor,
// in order of preference.
var cursorKeys = []string{"nextCursor", "next_cursor"}

// ErrMalformedPage is returned when a feed page is not the expected JSON.
var ErrMalformedPage = errors.New("malformed feed page")

// Feed reads records from the paginated remote feed.
type Feed struct {
	client     *http.Client
	feedURL    string
	maxPages   int
	onProgress model.ProgressFunc
}

// NewFeed creates a Feed. maxPages bounds the number of requests made;
// zero or negative means no limit.
func NewFeed(client *http.Client, feedURL string, maxPages int, onProgress model.ProgressFunc) *Feed {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Feed{
		client:     client,
		feedURL:    feedURL,
		maxPages:   maxPages,
		onProgress: onProgress,
	}
}

// page is one decoded feed response.
type page struct {
	items      []dto.FeedItem
	nextCursor string
}

// Records fetches every page of the feed.
//
// Pagination stops when a page has no items, when no next cursor is
// returned, when the next cursor repeats the one just requested, or after
// maxPages pages. A failed request or an undecodable page is reported as
// an error event and ends pagination; the records collected up to that
// point are returned with a nil error.
func (f *Feed) Records(ctx context.Context) ([]model.Record, error) {
	base, err := url.Parse(f.feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL %q: %w", f.feedURL, err)
	}

	var records []model.Record
	cursor := ""

	for pageNum := 1; ; pageNum++ {
		if f.maxPages > 0 && pageNum > f.maxPages {
			f.onProgress.Emit(model.LevelWarning, fmt.Sprintf("Stopped after %d pages", f.maxPages))
			break
		}

		body, err := f.client.Get(ctx, pageURL(base, cursor))
		if err != nil {
			f.onProgress.Emit(model.LevelError, fmt.Sprintf("Error fetching songs: %v", err))
			break
		}

		p, err := parsePage(body)
		if err != nil {
			f.onProgress.Emit(model.LevelError, fmt.Sprintf("Error fetching songs: %v", err))
			break
		}

		added := 0
		for _, item := range p.items {
			rec, ok := item.ToRecord()
			if !ok {
				f.onProgress.Emit(model.LevelVerbose, "Skipping feed item without id")
				continue
			}
			records = append(records, rec)
			added++
		}
		f.onProgress.Emit(model.LevelVerbose, fmt.Sprintf("Fetched page %d: %d songs", pageNum, added))

		if len(p.items) == 0 || p.nextCursor == "" || p.nextCursor == cursor {
			break
		}
		cursor = p.nextCursor
	}

	return records, nil
}

// pageURL returns base with the cursor query parameter set. An empty
// cursor leaves the parameter out entirely.
func pageURL(base *url.URL, cursor string) string {
	u := *base
	if cursor != "" {
		q := u.Query()
		q.Set("cursor", cursor)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// parsePage decodes a feed response body.
func parsePage(body []byte) (page, error) {
	if !gjson.ValidBytes(body) {
		return page{}, fmt.Errorf("%w: invalid JSON", ErrMalformedPage)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return page{}, fmt.Errorf("%w: expected an object", ErrMalformedPage)
	}

	var p page
	items := root.Get("items")
	if items.Exists() && items.Type != gjson.Null {
		if !items.IsArray() {
			return page{}, fmt.Errorf("%w: items is not an array", ErrMalformedPage)
		}
		for _, item := range items.Array() {
			p.items = append(p.items, dto.FeedItemFromJSON(item))
		}
	}

	for _, key := range cursorKeys {
		if v := root.Get(key); v.String() != "" {
			p.nextCursor = v.String()
			break
		}
	}

	return p, nil
}
