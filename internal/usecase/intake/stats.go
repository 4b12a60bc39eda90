package intake

import (
	"context"
	"errors"
	"time"

	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
)

// StatsResult aggregates intake-log outcomes over a trailing window. The
// qualification rate counts every outcome a qualified event can reach,
// duplicates and processing failures included, against all submissions.
type StatsResult struct {
	WindowStart       string
	Total             int64
	Counts            map[string]int64
	QualificationRate float64
}

func (s *Service) Stats(ctx context.Context, window time.Duration) (StatsResult, error) {
	if ctx == nil {
		return StatsResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return StatsResult{}, errs.Wrap(err, "check context")
	}
	if s.logRepo == nil {
		return StatsResult{}, errors.New("intake log repository is required")
	}
	if window <= 0 {
		window = 24 * time.Hour
	}

	since := time.Now().UTC().Add(-window).Format(time.RFC3339Nano)

	counts, err := s.logRepo.CountByOutcomeSince(ctx, since)
	if err != nil {
		return StatsResult{}, errs.Wrap(err, "count outcomes")
	}

	result := StatsResult{
		WindowStart: since,
		Counts:      make(map[string]int64, len(counts)),
	}

	var qualified int64
	for _, count := range counts {
		result.Counts[count.Outcome] = count.Count
		result.Total += count.Count

		switch domainintake.Outcome(count.Outcome) {
		case domainintake.OutcomeStored, domainintake.OutcomeDuplicate,
			domainintake.OutcomeFetchFailed, domainintake.OutcomeFailed:
			qualified += count.Count
		}
	}

	if result.Total > 0 {
		result.QualificationRate = float64(qualified) / float64(result.Total)
	}
	return result, nil
}
