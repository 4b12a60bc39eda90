package ports

import (
	"context"
	"errors"

	"github.com/chittyos/intake/internal/domain/intake"
)

var (
	// ErrSourceUnavailable covers every definite fetch failure: 4xx/5xx,
	// timeout, malformed reference. Never partial bytes.
	ErrSourceUnavailable = errors.New("source not found or unreachable")

	ErrNoFetcher = errors.New("no fetcher registered for source")
)

type FetchResult struct {
	Bytes       []byte
	ContentType string
}

// SourceFetcher retrieves raw file bytes from one named origin system. Each
// variant owns the protocol detail for its origin and is otherwise stateless.
type SourceFetcher interface {
	CanHandle(source intake.Source) bool
	Fetch(ctx context.Context, sourceRef string) (FetchResult, error)
}
