package ports

import "context"

// WorkflowStartInput carries the full qualification context downstream so
// later stages never re-derive it.
type WorkflowStartInput struct {
	Workflow         string
	DocumentID       string
	StorageKey       string
	ContentHash      string
	FileName         string
	ContentType      string
	Source           string
	SourceRef        string
	Reason           string
	Score            float64
	MatchedCaseID    string
	MatchedEntityIDs []string
	Priority         int
}

// WorkflowEngine starts one downstream multi-step processing run and returns
// its run identifier.
type WorkflowEngine interface {
	StartRun(ctx context.Context, input WorkflowStartInput) (runID string, err error)
}
