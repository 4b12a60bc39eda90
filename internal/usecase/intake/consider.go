package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chittyos/intake/internal/bootstrap/logging"
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
)

// MaxBatchSize bounds one batched consideration call.
const MaxBatchSize = 100

var ErrBatchTooLarge = fmt.Errorf("batch exceeds %d submissions", MaxBatchSize)

// ConsiderInput is one submission offered to the pipeline, metadata only.
type ConsiderInput struct {
	SubmissionID string
	Source       string
	SourceRef    string
	SourceHash   string
	FileName     string
	SizeBytes    int64
	MimeType     string
	SubmittedBy  string
	Hints        domainintake.Hints
}

// ConsiderResult reports the submission's disposition. On the asynchronous
// path only SubmissionID and Accepted are set; on the synchronous path the
// full qualification (and, when qualified, intake) outcome is present.
type ConsiderResult struct {
	SubmissionID  string
	Accepted      bool
	Decision      Decision
	Reason        domainintake.Reason
	Score         float64
	Priority      int
	Outcome       domainintake.Outcome
	DocumentID    string
	WorkflowRunID string
	CanRetry      bool
	Detail        string
}

// Consider accepts one submission. With an event stream configured the event
// is published and the call returns immediately; without one the pipeline
// runs synchronously through qualification and, when qualified, intake.
func (s *Service) Consider(ctx context.Context, input ConsiderInput) (ConsiderResult, error) {
	if ctx == nil {
		return ConsiderResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ConsiderResult{}, errs.Wrap(err, "check context")
	}

	event := s.buildEvent(input)
	return s.considerEvent(ctx, event)
}

// ConsiderBatch accepts up to MaxBatchSize submissions and returns one result
// per input, in input order.
func (s *Service) ConsiderBatch(ctx context.Context, inputs []ConsiderInput) ([]ConsiderResult, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if len(inputs) == 0 {
		return nil, errors.New("batch is empty")
	}
	if len(inputs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]ConsiderResult, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return results, errs.Wrap(err, "check context")
		}

		result, err := s.considerEvent(ctx, s.buildEvent(input))
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) buildEvent(input ConsiderInput) domainintake.ConsiderationEvent {
	submissionID := strings.TrimSpace(input.SubmissionID)
	if submissionID == "" {
		submissionID = newSubmissionID()
	}

	// An unknown source tag still becomes an event; the qualification
	// cascade rejects it with the field named, instead of dropping it here.
	return domainintake.ConsiderationEvent{
		SubmissionID: submissionID,
		Source:       domainintake.Source(strings.ToLower(strings.TrimSpace(input.Source))),
		SourceRef:    strings.TrimSpace(input.SourceRef),
		SourceHash:   strings.TrimSpace(input.SourceHash),
		FileName:     strings.TrimSpace(input.FileName),
		SizeBytes:    input.SizeBytes,
		MimeType:     strings.TrimSpace(input.MimeType),
		SubmittedAt:  nowUTCString(),
		SubmittedBy:  strings.TrimSpace(input.SubmittedBy),
		Hints:        input.Hints,
	}
}

func (s *Service) considerEvent(ctx context.Context, event domainintake.ConsiderationEvent) (ConsiderResult, error) {
	logCtx := logging.WithSubmission(ctx, event.SubmissionID)

	if s.stream != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return ConsiderResult{}, errs.Wrap(err, "marshal consideration event")
		}
		if err := s.stream.PublishConsideration(ctx, payload); err != nil {
			return ConsiderResult{}, errs.Wrap(err, "publish consideration event")
		}

		logging.Info(logCtx, "consideration published", slog.String("source", string(event.Source)))
		return ConsiderResult{SubmissionID: event.SubmissionID, Accepted: true}, nil
	}

	return s.qualifyAndSettle(logCtx, event)
}

// qualifyAndSettle is the synchronous path: qualify, record the outcome, and
// for qualified events run intake inline.
func (s *Service) qualifyAndSettle(ctx context.Context, event domainintake.ConsiderationEvent) (ConsiderResult, error) {
	started := time.Now()

	qualification, err := s.Qualify(ctx, event)
	if err != nil {
		return ConsiderResult{}, err
	}

	elapsed := time.Since(started).Milliseconds()

	switch qualification.Decision {
	case DecisionRejected:
		rejection := *qualification.Rejection
		if err := s.recordRejection(ctx, rejection, elapsed); err != nil {
			return ConsiderResult{}, err
		}
		return ConsiderResult{
			SubmissionID: event.SubmissionID,
			Decision:     DecisionRejected,
			Reason:       rejection.Reason,
			CanRetry:     rejection.CanRetry,
			Detail:       rejection.Detail,
		}, nil

	case DecisionDeferred:
		if err := s.recordDeferred(ctx, event, qualification.Detail, elapsed); err != nil {
			return ConsiderResult{}, err
		}
		return ConsiderResult{
			SubmissionID: event.SubmissionID,
			Decision:     DecisionDeferred,
			Detail:       qualification.Detail,
		}, nil
	}

	intakeEvent := *qualification.Intake
	result := ConsiderResult{
		SubmissionID: event.SubmissionID,
		Decision:     DecisionQualified,
		Reason:       intakeEvent.Reason,
		Score:        intakeEvent.Score,
		Priority:     intakeEvent.Priority,
	}

	processed, err := s.Process(ctx, intakeEvent)
	result.Outcome = processed.Outcome
	result.DocumentID = processed.DocumentID
	result.WorkflowRunID = processed.WorkflowRunID
	if err != nil {
		// The qualification stands and the failure is already logged; the
		// caller sees the processing outcome, not a transport error.
		result.Detail = err.Error()
	}
	return result, nil
}

// HandleConsideration consumes one consideration payload from the stream:
// qualify, then publish qualified events onward and settle the rest.
func (s *Service) HandleConsideration(ctx context.Context, payload []byte) {
	started := time.Now()

	var event domainintake.ConsiderationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logging.Error(ctx, "drop malformed consideration payload", slog.String("error", err.Error()))
		return
	}

	logCtx := logging.WithSubmission(ctx, event.SubmissionID)

	qualification, err := s.Qualify(logCtx, event)
	if err != nil {
		logging.Error(logCtx, "qualification failed", slog.String("error", err.Error()))
		return
	}

	elapsed := time.Since(started).Milliseconds()

	switch qualification.Decision {
	case DecisionRejected:
		if err := s.recordRejection(logCtx, *qualification.Rejection, elapsed); err != nil {
			logging.Error(logCtx, "record rejection", slog.String("error", err.Error()))
		}
	case DecisionDeferred:
		if err := s.recordDeferred(logCtx, event, qualification.Detail, elapsed); err != nil {
			logging.Error(logCtx, "record deferral", slog.String("error", err.Error()))
		}
	case DecisionQualified:
		out, err := json.Marshal(qualification.Intake)
		if err != nil {
			logging.Error(logCtx, "marshal intake event", slog.String("error", err.Error()))
			return
		}
		if err := s.stream.PublishQualified(logCtx, out); err != nil {
			logging.Error(logCtx, "publish qualified event", slog.String("error", err.Error()))
		}
	}
}

// HandleQualified consumes one qualified payload from the stream and runs
// intake. Process logs its own outcome.
func (s *Service) HandleQualified(ctx context.Context, payload []byte) {
	var event domainintake.IntakeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logging.Error(ctx, "drop malformed intake payload", slog.String("error", err.Error()))
		return
	}

	if _, err := s.Process(logging.WithSubmission(ctx, event.SubmissionID), event); err != nil {
		logging.Warn(ctx, "intake processing failed",
			slog.String("submission_id", event.SubmissionID),
			slog.String("error", err.Error()),
		)
	}
}
