package intake

import (
	"context"
	"errors"

	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

// StatusResult is the submission-scoped view over the intake log and the
// rejection index.
type StatusResult struct {
	SubmissionID  string
	Outcome       string
	Reason        string
	Score         float64
	Priority      int
	DocumentID    string
	WorkflowRunID string
	Detail        string
	CanRetry      bool
	RecordedAt    string
}

// Status looks a submission up, intake log first, then the rejection index.
// Returns ports.ErrSubmissionNotFound when neither knows the id.
func (s *Service) Status(ctx context.Context, submissionID string) (StatusResult, error) {
	if ctx == nil {
		return StatusResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return StatusResult{}, errs.Wrap(err, "check context")
	}
	if s.logRepo == nil {
		return StatusResult{}, errors.New("intake log repository is required")
	}
	if s.rejRepo == nil {
		return StatusResult{}, errors.New("rejection repository is required")
	}

	entry, err := s.logRepo.FindLatestBySubmission(ctx, submissionID)
	if err == nil {
		result := StatusResult{
			SubmissionID:  entry.SubmissionID,
			Outcome:       entry.Outcome,
			Reason:        entry.Reason,
			Score:         entry.Score,
			Priority:      entry.Priority,
			DocumentID:    entry.DocumentID,
			WorkflowRunID: entry.WorkflowRunID,
			Detail:        entry.Detail,
			RecordedAt:    entry.CreatedAt,
		}
		// Rejections carry their retryability in the index, not the log.
		if row, rejErr := s.rejRepo.GetBySubmission(ctx, submissionID); rejErr == nil {
			result.CanRetry = row.CanRetry
		}
		return result, nil
	}
	if !errors.Is(err, ports.ErrSubmissionNotFound) {
		return StatusResult{}, errs.Wrap(err, "find intake log entry")
	}

	row, err := s.rejRepo.GetBySubmission(ctx, submissionID)
	if err != nil {
		return StatusResult{}, err
	}
	return StatusResult{
		SubmissionID: row.SubmissionID,
		Outcome:      "rejected",
		Reason:       row.Reason,
		Detail:       row.Detail,
		CanRetry:     row.CanRetry,
		RecordedAt:   row.RejectedAt,
	}, nil
}
