package ports

import (
	"context"
	"errors"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrCaseNotFound       = errors.New("case not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// DocumentRecord mirrors the documents table. The content hash is the
// entity's natural key: at most one row per hash, enforced by the store.
type DocumentRecord struct {
	DocumentID    string
	ContentHash   string
	StorageKey    string
	FileName      string
	SizeBytes     int64
	MimeType      string
	Status        string
	Source        string
	SourceRef     string
	Reason        string
	Score         float64
	MatchedCaseID string
	WorkflowRunID string
	CreatedAt     string
	UpdatedAt     string
}

type DocumentRepository interface {
	// Insert writes the row unless a document with the same content hash
	// already exists; inserted=false is the duplicate signal, not an error.
	Insert(ctx context.Context, record DocumentRecord) (inserted bool, err error)
	FindByHash(ctx context.Context, contentHash string) (DocumentRecord, error)
	FindByID(ctx context.Context, documentID string) (DocumentRecord, error)
	SetWorkflowRun(ctx context.Context, documentID string, runID string, status string, updatedAt string) error
	SetStatus(ctx context.Context, documentID string, status string, updatedAt string) error
}

type CaseSummary struct {
	CaseID     string
	CaseNumber string
	Title      string
	Status     string
}

type EntitySummary struct {
	EntityID         string
	Name             string
	LinkedCaseID     string
	LinkedCaseStatus string
}

// CaseReader is the thin read surface the qualification cascade needs.
type CaseReader interface {
	GetCaseByNumber(ctx context.Context, caseNumber string) (CaseSummary, error)
	SearchCasesByName(ctx context.Context, fragment string) ([]CaseSummary, error)
	SearchEntitiesByName(ctx context.Context, names []string) ([]EntitySummary, error)
}

// IntakeLogEntry is the audit row written exactly once per outcome. It is
// the only durable trace of a submission once it leaves the pipeline.
type IntakeLogEntry struct {
	LogID         uint64
	SubmissionID  string
	Outcome       string
	Reason        string
	Score         float64
	Priority      int
	DocumentID    string
	WorkflowRunID string
	Source        string
	FileName      string
	Detail        string
	ElapsedMS     int64
	CreatedAt     string
}

type OutcomeCount struct {
	Outcome string
	Count   int64
}

type IntakeLogRepository interface {
	Append(ctx context.Context, entry IntakeLogEntry) error
	FindLatestBySubmission(ctx context.Context, submissionID string) (IntakeLogEntry, error)
	CountByOutcomeSince(ctx context.Context, since string) ([]OutcomeCount, error)
}

// RejectionRow is the queryable index of archived rejection records; the
// blob archive itself stays write-only.
type RejectionRow struct {
	SubmissionID   string
	Source         string
	SourceRef      string
	SourceHash     string
	FileName       string
	SizeBytes      int64
	MimeType       string
	SubmittedBy    string
	Reason         string
	Detail         string
	CanRetry       bool
	RetryHintsJSON string
	HintsJSON      string
	ArchiveKey     string
	RejectedAt     string
}

type RejectionRepository interface {
	Save(ctx context.Context, row RejectionRow) error
	GetBySubmission(ctx context.Context, submissionID string) (RejectionRow, error)
}
