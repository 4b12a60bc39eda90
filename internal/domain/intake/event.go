package intake

import "strings"

// Hints is the optional free-form signal bag attached to a submission.
type Hints struct {
	CaseID      string   `json:"case_id,omitempty"`
	CaseName    string   `json:"case_name,omitempty"`
	EntityNames []string `json:"entity_names,omitempty"`
	DocType     string   `json:"doc_type,omitempty"`
	DateHint    string   `json:"date_hint,omitempty"`
	Urgent      bool     `json:"urgent,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (h Hints) Empty() bool {
	return strings.TrimSpace(h.CaseID) == "" &&
		strings.TrimSpace(h.CaseName) == "" &&
		len(h.EntityNames) == 0 &&
		strings.TrimSpace(h.DocType) == "" &&
		strings.TrimSpace(h.DateHint) == "" &&
		!h.Urgent &&
		len(h.Tags) == 0
}

// ConsiderationEvent is the unit submitted at ingress: metadata only, never
// file bytes. It is immutable once created and is never persisted as its own
// row; it either promotes to an IntakeEvent, converts to a RejectionRecord,
// or is logged as deferred.
type ConsiderationEvent struct {
	SubmissionID string `json:"submission_id"`
	Source       Source `json:"source"`
	SourceRef    string `json:"source_ref"`
	SourceHash   string `json:"source_hash,omitempty"`
	FileName     string `json:"file_name"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	SubmittedAt  string `json:"submitted_at"`
	SubmittedBy  string `json:"submitted_by,omitempty"`
	RetriedFrom  string `json:"retried_from,omitempty"`
	Hints        Hints  `json:"hints,omitempty"`
}

// IntakeEvent is a ConsiderationEvent that qualified. It is consumed exactly
// once by the intake worker; its outcome survives only in the document row
// and the intake log.
type IntakeEvent struct {
	ConsiderationEvent

	IntakeID         string   `json:"intake_id"`
	QualifiedAt      string   `json:"qualified_at"`
	Reason           Reason   `json:"reason"`
	Score            float64  `json:"score"`
	MatchedCaseID    string   `json:"matched_case_id,omitempty"`
	MatchedEntityIDs []string `json:"matched_entity_ids,omitempty"`
	Priority         int      `json:"priority"`
}

// RejectionRecord is a ConsiderationEvent that failed qualification. Written
// once to the archive; immutable except that a later resubmission may
// reference it.
type RejectionRecord struct {
	ConsiderationEvent

	RejectedAt string   `json:"rejected_at"`
	Reason     Reason   `json:"reason"`
	Detail     string   `json:"detail"`
	CanRetry   bool     `json:"can_retry"`
	RetryHints []string `json:"retry_hints,omitempty"`
}

// NewRejectionRecord builds a rejection. CanRetry is derived, never set
// directly: a record is retryable only when at least one retry hint exists.
func NewRejectionRecord(event ConsiderationEvent, rejectedAt string, reason Reason, detail string, retryHints []string) RejectionRecord {
	hints := make([]string, 0, len(retryHints))
	for _, raw := range retryHints {
		hint := strings.TrimSpace(raw)
		if hint == "" {
			continue
		}
		hints = append(hints, hint)
	}

	return RejectionRecord{
		ConsiderationEvent: event,
		RejectedAt:         rejectedAt,
		Reason:             reason,
		Detail:             detail,
		CanRetry:           len(hints) > 0,
		RetryHints:         hints,
	}
}
