package intake

import "fmt"

// DocumentStatus tracks a document row through downstream processing.
type DocumentStatus string

const (
	StatusQueued     DocumentStatus = "queued"
	StatusProcessing DocumentStatus = "processing"
	StatusDuplicate  DocumentStatus = "duplicate"
	StatusFailed     DocumentStatus = "failed"
	StatusCompleted  DocumentStatus = "completed"
)

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	StatusQueued:     {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

func ValidateTransition(from DocumentStatus, to DocumentStatus) error {
	for _, next := range documentTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Outcome is the terminal (or, for deferred, resubmittable) disposition of a
// submission as recorded in the intake log.
type Outcome string

const (
	OutcomeStored      Outcome = "stored"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeRejected    Outcome = "rejected"
	OutcomeDeferred    Outcome = "deferred"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeFailed      Outcome = "failed"
)

// IsTerminal reports whether the outcome ends the submission's lifecycle.
// Deferred submissions re-enter via resubmission.
func (o Outcome) IsTerminal() bool {
	return o != OutcomeDeferred
}
