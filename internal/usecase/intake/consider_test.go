package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainintake "github.com/chittyos/intake/internal/domain/intake"
)

func TestConsiderSyncPathRunsIntakeInline(t *testing.T) {
	fixture := newFixture()

	result, err := fixture.service.Consider(context.Background(), ConsiderInput{
		Source:    "client_portal",
		SourceRef: "portal://abc",
		FileName:  "lease.pdf",
	})
	if err != nil {
		t.Fatalf("Consider() error = %v", err)
	}
	if result.Decision != DecisionQualified {
		t.Fatalf("Decision = %s, want qualified", result.Decision)
	}
	if result.Outcome != domainintake.OutcomeStored {
		t.Fatalf("Outcome = %s, want stored", result.Outcome)
	}
	if result.SubmissionID == "" || result.DocumentID == "" {
		t.Fatalf("missing ids: %+v", result)
	}
}

func TestConsiderRejectionIsArchivedAndIndexed(t *testing.T) {
	fixture := newFixture()

	result, err := fixture.service.Consider(context.Background(), ConsiderInput{
		Source:    "cloud_drive",
		SourceRef: "drive://file-1",
		FileName:  "notes.txt",
	})
	if err != nil {
		t.Fatalf("Consider() error = %v", err)
	}
	if result.Decision != DecisionRejected || result.Reason != domainintake.ReasonNoSignal {
		t.Fatalf("result = %+v, want no_signal rejection", result)
	}

	if len(fixture.archive.archived) != 1 {
		t.Fatalf("archived = %v, want one record", fixture.archive.archived)
	}
	row, err := fixture.rejects.GetBySubmission(context.Background(), result.SubmissionID)
	if err != nil {
		t.Fatalf("GetBySubmission() error = %v", err)
	}
	if !row.CanRetry || row.ArchiveKey == "" {
		t.Fatalf("row = %+v", row)
	}
	if got := fixture.logs.outcomes(result.SubmissionID); len(got) != 1 || got[0] != "rejected" {
		t.Fatalf("log outcomes = %v, want [rejected]", got)
	}
}

func TestConsiderBatchNoLoss(t *testing.T) {
	fixture := newFixture()

	inputs := []ConsiderInput{
		{Source: "client_portal", SourceRef: "portal://a", FileName: "lease.pdf"},
		{Source: "cloud_drive", SourceRef: "drive://b", FileName: "notes.txt"},
		{Source: "cloud_drive", SourceRef: "drive://c", FileName: "subpoena.pdf"},
	}

	results, err := fixture.service.ConsiderBatch(context.Background(), inputs)
	if err != nil {
		t.Fatalf("ConsiderBatch() error = %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("results = %d, want %d", len(results), len(inputs))
	}

	var qualified, rejected, deferred int
	for _, result := range results {
		switch result.Decision {
		case DecisionQualified:
			qualified++
		case DecisionRejected:
			rejected++
		case DecisionDeferred:
			deferred++
		}
	}
	if qualified+rejected+deferred != len(inputs) {
		t.Fatalf("outcomes %d+%d+%d do not cover %d inputs", qualified, rejected, deferred, len(inputs))
	}
	if qualified != 2 || rejected != 1 {
		t.Fatalf("qualified/rejected = %d/%d, want 2/1", qualified, rejected)
	}
}

func TestConsiderBatchRejectsOversize(t *testing.T) {
	fixture := newFixture()

	inputs := make([]ConsiderInput, MaxBatchSize+1)
	for i := range inputs {
		inputs[i] = ConsiderInput{Source: "cloud_drive", SourceRef: "drive://x", FileName: "x.pdf"}
	}

	if _, err := fixture.service.ConsiderBatch(context.Background(), inputs); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("ConsiderBatch() error = %v, want ErrBatchTooLarge", err)
	}
}

func TestRetryMergesHintsAndLinksOriginal(t *testing.T) {
	fixture := newFixture()

	// Missing file name rejects as invalid regardless of hints, which keeps
	// the original's hint bag in the rejection index for the retry to merge.
	original, err := fixture.service.Consider(context.Background(), ConsiderInput{
		Source:    "cloud_drive",
		SourceRef: "drive://file-1",
		Hints:     domainintake.Hints{EntityNames: []string{"Acme"}},
	})
	if err != nil {
		t.Fatalf("Consider() error = %v", err)
	}
	if original.Decision != DecisionRejected || original.Reason != domainintake.ReasonInvalidSubmission {
		t.Fatalf("setup: result = %+v, want invalid_submission rejection", original)
	}

	retried, err := fixture.service.Retry(context.Background(), original.SubmissionID, domainintake.Hints{CaseID: "2026-D-007847"})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if retried.SubmissionID == original.SubmissionID {
		t.Fatalf("retry must get a fresh submission id")
	}

	row, err := fixture.rejects.GetBySubmission(context.Background(), retried.SubmissionID)
	if err != nil {
		t.Fatalf("GetBySubmission() error = %v", err)
	}
	if !strings.Contains(row.HintsJSON, "Acme") || !strings.Contains(row.HintsJSON, "2026-D-007847") {
		t.Fatalf("merged hints = %s, want original entity plus new case id", row.HintsJSON)
	}
}

func TestRetryNotAllowedForDuplicates(t *testing.T) {
	fixture := newFixture()

	// First submission stores the document; an identical pre-declared hash
	// then rejects as a duplicate with no retry.
	stored, err := fixture.service.Consider(context.Background(), ConsiderInput{
		Source:    "client_portal",
		SourceRef: "portal://abc",
		FileName:  "lease.pdf",
	})
	if err != nil {
		t.Fatalf("Consider() error = %v", err)
	}

	doc, err := fixture.docs.FindByID(context.Background(), stored.DocumentID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}

	duplicate, err := fixture.service.Consider(context.Background(), ConsiderInput{
		Source:     "client_portal",
		SourceRef:  "portal://abc",
		SourceHash: doc.ContentHash,
		FileName:   "lease.pdf",
	})
	if err != nil {
		t.Fatalf("Consider() error = %v", err)
	}
	if duplicate.Decision != DecisionRejected || duplicate.CanRetry {
		t.Fatalf("duplicate = %+v, want non-retryable rejection", duplicate)
	}

	if _, err := fixture.service.Retry(context.Background(), duplicate.SubmissionID, domainintake.Hints{}); !errors.Is(err, domainintake.ErrRetryNotAllowed) {
		t.Fatalf("Retry() error = %v, want ErrRetryNotAllowed", err)
	}
}

func TestStatusChecksLogThenRejectionIndex(t *testing.T) {
	fixture := newFixture()

	rejected, err := fixture.service.Consider(context.Background(), ConsiderInput{
		Source:    "cloud_drive",
		SourceRef: "drive://file-1",
		FileName:  "notes.txt",
	})
	if err != nil {
		t.Fatalf("Consider() error = %v", err)
	}

	status, err := fixture.service.Status(context.Background(), rejected.SubmissionID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Outcome != "rejected" || !status.CanRetry {
		t.Fatalf("status = %+v", status)
	}

	if _, err := fixture.service.Status(context.Background(), "sub-unknown"); err == nil {
		t.Fatalf("Status() expected not-found error")
	}
}
