// Package fetch retrieves submitted file bytes from their origin systems.
package fetch

import (
	"errors"

	"github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
)

// Registry holds the ordered fetcher list. Selection is first match wins, so
// registration order is the dispatch order. A catch-all seals the registry.
type Registry struct {
	fetchers []ports.SourceFetcher
	sealed   bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(fetcher ports.SourceFetcher) error {
	if fetcher == nil {
		return errors.New("fetcher is required")
	}
	if r.sealed {
		return errors.New("registry is sealed after a catch-all fetcher")
	}
	r.fetchers = append(r.fetchers, fetcher)
	return nil
}

func (r *Registry) RegisterCatchAll(fetcher ports.SourceFetcher) error {
	if err := r.Register(fetcher); err != nil {
		return err
	}
	r.sealed = true
	return nil
}

func (r *Registry) Select(source intake.Source) (ports.SourceFetcher, error) {
	for _, fetcher := range r.fetchers {
		if fetcher.CanHandle(source) {
			return fetcher, nil
		}
	}
	return nil, ports.ErrNoFetcher
}
