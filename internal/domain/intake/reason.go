package intake

import "fmt"

// Reason is the closed vocabulary explaining why a submission qualified or
// was rejected. Exactly one reason is attached to every outcome.
type Reason string

const (
	ReasonInvalidSubmission Reason = "invalid_submission"
	ReasonDuplicate         Reason = "duplicate"
	ReasonSourcePriority    Reason = "source_priority"
	ReasonCaseIDMatch       Reason = "case_id_match"
	ReasonCaseNameMatch     Reason = "case_name_match"
	ReasonEntityMatch       Reason = "entity_match"
	ReasonDocTypeMatch      Reason = "doc_type_match"
	ReasonWeakSignal        Reason = "weak_signal"
	ReasonNoSignal          Reason = "no_signal"
)

var allowedReasons = map[Reason]struct{}{
	ReasonInvalidSubmission: {},
	ReasonDuplicate:         {},
	ReasonSourcePriority:    {},
	ReasonCaseIDMatch:       {},
	ReasonCaseNameMatch:     {},
	ReasonEntityMatch:       {},
	ReasonDocTypeMatch:      {},
	ReasonWeakSignal:        {},
	ReasonNoSignal:          {},
}

func ValidateReason(reason Reason) error {
	if _, ok := allowedReasons[reason]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownReason, reason)
	}
	return nil
}
