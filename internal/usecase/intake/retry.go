package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
)

// Retry resubmits a retryable rejection. New hints merge over the original's
// hints and the resubmission gets a fresh submission id that references the
// original.
func (s *Service) Retry(ctx context.Context, submissionID string, override domainintake.Hints) (ConsiderResult, error) {
	if ctx == nil {
		return ConsiderResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ConsiderResult{}, errs.Wrap(err, "check context")
	}
	if s.rejRepo == nil {
		return ConsiderResult{}, errors.New("rejection repository is required")
	}

	row, err := s.rejRepo.GetBySubmission(ctx, submissionID)
	if err != nil {
		return ConsiderResult{}, err
	}
	if !row.CanRetry {
		return ConsiderResult{}, fmt.Errorf("%w: submission %s rejected as %s", domainintake.ErrRetryNotAllowed, submissionID, row.Reason)
	}

	var original domainintake.Hints
	if row.HintsJSON != "" {
		if err := json.Unmarshal([]byte(row.HintsJSON), &original); err != nil {
			return ConsiderResult{}, errs.Wrap(err, "decode original hints")
		}
	}

	event := domainintake.ConsiderationEvent{
		SubmissionID: newSubmissionID(),
		Source:       domainintake.Source(row.Source),
		SourceRef:    row.SourceRef,
		SourceHash:   row.SourceHash,
		FileName:     row.FileName,
		SizeBytes:    row.SizeBytes,
		MimeType:     row.MimeType,
		SubmittedAt:  nowUTCString(),
		SubmittedBy:  row.SubmittedBy,
		RetriedFrom:  row.SubmissionID,
		Hints:        domainintake.MergeHints(original, override),
	}

	return s.considerEvent(ctx, event)
}
