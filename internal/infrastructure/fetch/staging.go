package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
)

// StagingFetcher reads pre-uploaded objects from the staging bucket. It is
// the catch-all: any source whose bytes were already pushed to staging can be
// referenced as blob://<key>.
type StagingFetcher struct {
	store     ports.BlobStore
	keyPrefix string
}

func NewStagingFetcher(store ports.BlobStore, keyPrefix string) *StagingFetcher {
	return &StagingFetcher{store: store, keyPrefix: keyPrefix}
}

func (f *StagingFetcher) CanHandle(_ intake.Source) bool {
	return true
}

func (f *StagingFetcher) Fetch(ctx context.Context, sourceRef string) (ports.FetchResult, error) {
	key, err := refID(sourceRef, "blob://")
	if err != nil {
		return ports.FetchResult{}, err
	}
	if f.keyPrefix != "" && !strings.HasPrefix(key, f.keyPrefix) {
		key = f.keyPrefix + key
	}

	body, contentType, err := f.store.Get(ctx, key)
	if err != nil {
		return ports.FetchResult{}, fmt.Errorf("%w: %s", ports.ErrSourceUnavailable, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return ports.FetchResult{Bytes: body, ContentType: contentType}, nil
}
