package intake

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/chittyos/intake/internal/bootstrap/logging"
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

// recordRejection archives the rejection record, indexes it for lookup and
// retry, and appends the intake-log row. The archive write is best effort:
// losing the blob must not let the submission vanish from the durable index.
func (s *Service) recordRejection(ctx context.Context, rejection domainintake.RejectionRecord, elapsedMS int64) error {
	if s.rejRepo == nil {
		return errors.New("rejection repository is required")
	}
	if s.logRepo == nil {
		return errors.New("intake log repository is required")
	}

	logCtx := logging.WithSubmission(ctx, rejection.SubmissionID)

	payload, err := json.Marshal(rejection)
	if err != nil {
		return errs.Wrap(err, "marshal rejection record")
	}

	archiveKey := ""
	if s.archive != nil {
		key, archiveErr := s.archive.Archive(ctx, rejection.SubmissionID, rejection.RejectedAt, payload)
		if archiveErr != nil {
			logging.Error(logCtx, "rejection archive write failed", slog.String("error", archiveErr.Error()))
		} else {
			archiveKey = key
		}
	}

	retryHintsJSON, err := json.Marshal(rejection.RetryHints)
	if err != nil {
		return errs.Wrap(err, "marshal retry hints")
	}
	hintsJSON, err := json.Marshal(rejection.Hints)
	if err != nil {
		return errs.Wrap(err, "marshal hints")
	}

	row := ports.RejectionRow{
		SubmissionID:   rejection.SubmissionID,
		Source:         string(rejection.Source),
		SourceRef:      rejection.SourceRef,
		SourceHash:     rejection.SourceHash,
		FileName:       rejection.FileName,
		SizeBytes:      rejection.SizeBytes,
		MimeType:       rejection.MimeType,
		SubmittedBy:    rejection.SubmittedBy,
		Reason:         string(rejection.Reason),
		Detail:         rejection.Detail,
		CanRetry:       rejection.CanRetry,
		RetryHintsJSON: string(retryHintsJSON),
		HintsJSON:      string(hintsJSON),
		ArchiveKey:     archiveKey,
		RejectedAt:     rejection.RejectedAt,
	}

	entry := ports.IntakeLogEntry{
		SubmissionID: rejection.SubmissionID,
		Outcome:      string(domainintake.OutcomeRejected),
		Reason:       string(rejection.Reason),
		Source:       string(rejection.Source),
		FileName:     rejection.FileName,
		Detail:       rejection.Detail,
		ElapsedMS:    elapsedMS,
		CreatedAt:    nowUTCString(),
	}

	write := func(txCtx context.Context) error {
		if err := s.rejRepo.Save(txCtx, row); err != nil {
			return errs.Wrap(err, "save rejection index")
		}
		if err := s.logRepo.Append(txCtx, entry); err != nil {
			return errs.Wrap(err, "append intake log")
		}
		return nil
	}

	if s.uow != nil {
		return s.uow.WithTx(ctx, write)
	}
	return write(ctx)
}

// recordDeferred logs the deferral so the submission is never silently lost.
func (s *Service) recordDeferred(ctx context.Context, event domainintake.ConsiderationEvent, detail string, elapsedMS int64) error {
	if s.logRepo == nil {
		return errors.New("intake log repository is required")
	}

	return s.logRepo.Append(ctx, ports.IntakeLogEntry{
		SubmissionID: event.SubmissionID,
		Outcome:      string(domainintake.OutcomeDeferred),
		Source:       string(event.Source),
		FileName:     event.FileName,
		Detail:       detail,
		ElapsedMS:    elapsedMS,
		CreatedAt:    nowUTCString(),
	})
}
