package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/chittyos/intake/internal/bootstrap/logging"
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/infrastructure/blob"
	"github.com/chittyos/intake/internal/ports"
)

// ProcessResult is the worker's disposition of one qualified event.
type ProcessResult struct {
	Outcome       domainintake.Outcome
	DocumentID    string
	WorkflowRunID string
}

// BatchCounts aggregates one ProcessBatch run.
type BatchCounts struct {
	Stored    int
	Duplicate int
	Failed    int
}

// Process runs a qualified event through fetch, dedup, upload, persist and
// workflow hand-off. Every disposition, error paths included, lands exactly
// one intake-log row.
func (s *Service) Process(ctx context.Context, event domainintake.IntakeEvent) (ProcessResult, error) {
	if ctx == nil {
		return ProcessResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ProcessResult{}, errs.Wrap(err, "check context")
	}
	if s.docRepo == nil {
		return ProcessResult{}, errors.New("document repository is required")
	}
	if s.logRepo == nil {
		return ProcessResult{}, errors.New("intake log repository is required")
	}
	if s.blob == nil {
		return ProcessResult{}, errors.New("blob store is required")
	}
	if s.workflow == nil {
		return ProcessResult{}, errors.New("workflow engine is required")
	}
	if s.fetchers == nil {
		return ProcessResult{}, errors.New("fetcher registry is required")
	}

	logCtx := logging.WithSubmission(ctx, event.SubmissionID)
	started := time.Now()

	fetcher, err := s.fetchers.Select(event.Source)
	if err != nil {
		wrapped := errs.Wrapf(err, "select fetcher for %s", event.Source)
		s.logOutcome(logCtx, event, domainintake.OutcomeFailed, "", "", wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFailed}, wrapped
	}

	fetched, err := fetcher.Fetch(ctx, event.SourceRef)
	if err != nil {
		wrapped := errs.Wrapf(err, "fetch %s", event.SourceRef)
		logging.Warn(logCtx, "fetch failed", slog.String("source", string(event.Source)), slog.String("error", err.Error()))
		s.logOutcome(logCtx, event, domainintake.OutcomeFetchFailed, "", "", wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFetchFailed}, wrapped
	}

	// The pre-declared hash was only a hint. The fetched bytes are ground
	// truth for dedup.
	sum := sha256.Sum256(fetched.Bytes)
	contentHash := hex.EncodeToString(sum[:])

	if existing, err := s.docRepo.FindByHash(ctx, contentHash); err == nil {
		s.logOutcome(logCtx, event, domainintake.OutcomeDuplicate, existing.DocumentID, existing.WorkflowRunID, "resolved to existing document", started)
		return ProcessResult{Outcome: domainintake.OutcomeDuplicate, DocumentID: existing.DocumentID, WorkflowRunID: existing.WorkflowRunID}, nil
	} else if !errors.Is(err, ports.ErrDocumentNotFound) {
		wrapped := errs.Wrap(err, "duplicate lookup")
		s.logOutcome(logCtx, event, domainintake.OutcomeFailed, "", "", wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFailed}, wrapped
	}

	now := nowUTCString()
	documentID := newDocumentID()
	storageKey := blob.DocumentKey(time.Now().UTC(), documentID, event.FileName)

	contentType := fetched.ContentType
	if contentType == "" {
		contentType = event.MimeType
	}

	if err := s.blob.Put(ctx, ports.BlobPut{
		Key:         storageKey,
		ContentType: contentType,
		Body:        fetched.Bytes,
		Metadata: map[string]string{
			"submission-id":   event.SubmissionID,
			"content-hash":    contentHash,
			"source":          string(event.Source),
			"reason":          string(event.Reason),
			"matched-case-id": event.MatchedCaseID,
		},
	}); err != nil {
		wrapped := errs.Wrap(err, "upload document")
		s.logOutcome(logCtx, event, domainintake.OutcomeFailed, "", "", wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFailed}, wrapped
	}

	inserted, err := s.docRepo.Insert(ctx, ports.DocumentRecord{
		DocumentID:    documentID,
		ContentHash:   contentHash,
		StorageKey:    storageKey,
		FileName:      event.FileName,
		SizeBytes:     int64(len(fetched.Bytes)),
		MimeType:      contentType,
		Status:        string(domainintake.StatusQueued),
		Source:        string(event.Source),
		SourceRef:     event.SourceRef,
		Reason:        string(event.Reason),
		Score:         event.Score,
		MatchedCaseID: event.MatchedCaseID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		wrapped := errs.Wrap(err, "insert document")
		s.logOutcome(logCtx, event, domainintake.OutcomeFailed, "", "", wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFailed}, wrapped
	}
	if !inserted {
		// Lost the race to a concurrent worker. The hash is the arbiter.
		existing, lookupErr := s.docRepo.FindByHash(ctx, contentHash)
		if lookupErr != nil {
			wrapped := errs.Wrap(lookupErr, "resolve racing duplicate")
			s.logOutcome(logCtx, event, domainintake.OutcomeFailed, "", "", wrapped.Error(), started)
			return ProcessResult{Outcome: domainintake.OutcomeFailed}, wrapped
		}
		s.logOutcome(logCtx, event, domainintake.OutcomeDuplicate, existing.DocumentID, existing.WorkflowRunID, "resolved to existing document", started)
		return ProcessResult{Outcome: domainintake.OutcomeDuplicate, DocumentID: existing.DocumentID, WorkflowRunID: existing.WorkflowRunID}, nil
	}

	runID, err := s.workflow.StartRun(ctx, ports.WorkflowStartInput{
		DocumentID:       documentID,
		StorageKey:       storageKey,
		ContentHash:      contentHash,
		FileName:         event.FileName,
		ContentType:      contentType,
		Source:           string(event.Source),
		SourceRef:        event.SourceRef,
		Reason:           string(event.Reason),
		Score:            event.Score,
		MatchedCaseID:    event.MatchedCaseID,
		MatchedEntityIDs: event.MatchedEntityIDs,
		Priority:         event.Priority,
	})
	if err != nil {
		wrapped := errs.Wrap(err, "start workflow run")
		if statusErr := s.docRepo.SetStatus(ctx, documentID, string(domainintake.StatusFailed), nowUTCString()); statusErr != nil {
			logging.Error(logCtx, "mark document failed", slog.String("error", statusErr.Error()))
		}
		s.logOutcome(logCtx, event, domainintake.OutcomeFailed, documentID, "", wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFailed, DocumentID: documentID}, wrapped
	}

	if err := s.docRepo.SetWorkflowRun(ctx, documentID, runID, string(domainintake.StatusProcessing), nowUTCString()); err != nil {
		wrapped := errs.Wrap(err, "persist workflow run")
		s.logOutcome(logCtx, event, domainintake.OutcomeFailed, documentID, runID, wrapped.Error(), started)
		return ProcessResult{Outcome: domainintake.OutcomeFailed, DocumentID: documentID, WorkflowRunID: runID}, wrapped
	}

	s.logOutcome(logCtx, event, domainintake.OutcomeStored, documentID, runID, "", started)
	logging.Info(logCtx, "document stored",
		slog.String("document_id", documentID),
		slog.String("workflow_run_id", runID),
		slog.String("reason", string(event.Reason)),
		slog.Int("priority", event.Priority),
	)
	return ProcessResult{Outcome: domainintake.OutcomeStored, DocumentID: documentID, WorkflowRunID: runID}, nil
}

// ProcessBatch processes events sequentially in descending priority order and
// aggregates dispositions. Individual failures never abort the batch.
func (s *Service) ProcessBatch(ctx context.Context, events []domainintake.IntakeEvent) (BatchCounts, error) {
	if ctx == nil {
		return BatchCounts{}, errors.New("context is required")
	}

	ordered := make([]domainintake.IntakeEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var counts BatchCounts
	for _, event := range ordered {
		if err := ctx.Err(); err != nil {
			return counts, errs.Wrap(err, "check context")
		}

		result, err := s.Process(ctx, event)
		switch {
		case err != nil:
			counts.Failed++
		case result.Outcome == domainintake.OutcomeDuplicate:
			counts.Duplicate++
		default:
			counts.Stored++
		}
	}
	return counts, nil
}

func (s *Service) logOutcome(
	ctx context.Context,
	event domainintake.IntakeEvent,
	outcome domainintake.Outcome,
	documentID string,
	runID string,
	detail string,
	started time.Time,
) {
	entry := ports.IntakeLogEntry{
		SubmissionID:  event.SubmissionID,
		Outcome:       string(outcome),
		Reason:        string(event.Reason),
		Score:         event.Score,
		Priority:      event.Priority,
		DocumentID:    documentID,
		WorkflowRunID: runID,
		Source:        string(event.Source),
		FileName:      event.FileName,
		Detail:        detail,
		ElapsedMS:     time.Since(started).Milliseconds(),
		CreatedAt:     nowUTCString(),
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		logging.Error(ctx, "append intake log",
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()),
		)
	}
}
