package source

import (
	"context"

	"github.com/handiism/suno-downloader/internal/model"
)

// Source produces an ordered list of records to download.
type Source interface {
	Records(ctx context.Context) ([]model.Record, error)
}
