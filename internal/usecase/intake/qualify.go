package intake

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/chittyos/intake/internal/bootstrap/logging"
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

// Decision is the qualification verdict for one consideration event.
type Decision string

const (
	DecisionQualified Decision = "qualified"
	DecisionRejected  Decision = "rejected"
	DecisionDeferred  Decision = "deferred"
)

const (
	scoreCaseIDMatch    = 0.98
	priorityCaseIDMatch = 90

	scoreCaseNameMatch    = 0.75
	priorityCaseNameMatch = 60

	scoreEntityLinked    = 0.85
	priorityEntityLinked = 70

	scoreEntityUnlinked    = 0.65
	priorityEntityUnlinked = 50

	scoreDocTypeMatch    = 0.55
	priorityDocTypeMatch = 40

	scoreWeakSignal    = 0.35
	priorityWeakSignal = 20
)

// QualifyResult carries exactly one of: a qualified intake event, a rejection
// record, or a deferral detail.
type QualifyResult struct {
	Decision  Decision
	Intake    *domainintake.IntakeEvent
	Rejection *domainintake.RejectionRecord
	Detail    string
}

// Qualify runs the ordered rule cascade over a consideration event. The first
// matching rule wins and fixes the reason and score. Store reads that fail
// transiently defer the event instead of rejecting it.
func (s *Service) Qualify(ctx context.Context, event domainintake.ConsiderationEvent) (QualifyResult, error) {
	if ctx == nil {
		return QualifyResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return QualifyResult{}, errs.Wrap(err, "check context")
	}
	if s.caseReader == nil {
		return QualifyResult{}, errors.New("case reader is required")
	}
	if s.docRepo == nil {
		return QualifyResult{}, errors.New("document repository is required")
	}

	logCtx := logging.WithSubmission(ctx, event.SubmissionID)
	now := nowUTCString()

	// Rule 1: shape validation.
	if missing := missingFields(event); len(missing) > 0 {
		hints := make([]string, 0, len(missing))
		for _, field := range missing {
			hints = append(hints, "provide a valid "+field)
		}
		rejection := domainintake.NewRejectionRecord(
			event, now, domainintake.ReasonInvalidSubmission,
			"missing or invalid fields: "+strings.Join(missing, ", "), hints,
		)
		return QualifyResult{Decision: DecisionRejected, Rejection: &rejection}, nil
	}

	// Rule 2: duplicate by pre-declared content hash.
	if hash := strings.TrimSpace(event.SourceHash); hash != "" {
		existing, err := s.docRepo.FindByHash(ctx, hash)
		switch {
		case err == nil:
			rejection := domainintake.NewRejectionRecord(
				event, now, domainintake.ReasonDuplicate,
				"content already stored as document "+existing.DocumentID, nil,
			)
			return QualifyResult{Decision: DecisionRejected, Rejection: &rejection}, nil
		case errors.Is(err, ports.ErrDocumentNotFound):
			// No duplicate, keep going.
		default:
			logging.Warn(logCtx, "duplicate lookup failed, deferring", slog.String("error", err.Error()))
			return QualifyResult{Decision: DecisionDeferred, Detail: "duplicate lookup unavailable"}, nil
		}
	}

	// Rule 3: high-trust origins qualify on source alone.
	if profile, ok := domainintake.TrustedSourceProfile(event.Source); ok {
		return s.qualified(event, now, domainintake.ReasonSourcePriority, profile.Score, profile.Priority, "", nil), nil
	}

	// Rule 4: exact case identifier.
	if caseID := strings.TrimSpace(event.Hints.CaseID); caseID != "" {
		found, err := s.caseReader.GetCaseByNumber(ctx, caseID)
		switch {
		case err == nil:
			return s.qualified(event, now, domainintake.ReasonCaseIDMatch, scoreCaseIDMatch, priorityCaseIDMatch, found.CaseID, nil), nil
		case errors.Is(err, ports.ErrCaseNotFound):
			// Unresolvable identifier is just a weak signal.
		default:
			logging.Warn(logCtx, "case lookup failed, deferring", slog.String("error", err.Error()))
			return QualifyResult{Decision: DecisionDeferred, Detail: "case lookup unavailable"}, nil
		}
	}

	// Rule 5: case name substring.
	if caseName := strings.TrimSpace(event.Hints.CaseName); caseName != "" {
		matches, err := s.caseReader.SearchCasesByName(ctx, caseName)
		if err != nil {
			logging.Warn(logCtx, "case search failed, deferring", slog.String("error", err.Error()))
			return QualifyResult{Decision: DecisionDeferred, Detail: "case search unavailable"}, nil
		}
		if len(matches) > 0 {
			return s.qualified(event, now, domainintake.ReasonCaseNameMatch, scoreCaseNameMatch, priorityCaseNameMatch, matches[0].CaseID, nil), nil
		}
	}

	// Rule 6: entity names, stronger when an entity is linked to a live case.
	if len(event.Hints.EntityNames) > 0 {
		entities, err := s.caseReader.SearchEntitiesByName(ctx, event.Hints.EntityNames)
		if err != nil {
			logging.Warn(logCtx, "entity search failed, deferring", slog.String("error", err.Error()))
			return QualifyResult{Decision: DecisionDeferred, Detail: "entity search unavailable"}, nil
		}
		if len(entities) > 0 {
			entityIDs := make([]string, 0, len(entities))
			linkedCaseID := ""
			for _, entity := range entities {
				entityIDs = append(entityIDs, entity.EntityID)
				if linkedCaseID == "" && entity.LinkedCaseID != "" && caseIsLive(entity.LinkedCaseStatus) {
					linkedCaseID = entity.LinkedCaseID
				}
			}
			if linkedCaseID != "" {
				return s.qualified(event, now, domainintake.ReasonEntityMatch, scoreEntityLinked, priorityEntityLinked, linkedCaseID, entityIDs), nil
			}
			return s.qualified(event, now, domainintake.ReasonEntityMatch, scoreEntityUnlinked, priorityEntityUnlinked, "", entityIDs), nil
		}
	}

	// Rule 7: legally relevant document type keyword.
	if _, ok := domainintake.MatchDocType(event.Hints.DocType, event.FileName); ok {
		return s.qualified(event, now, domainintake.ReasonDocTypeMatch, scoreDocTypeMatch, priorityDocTypeMatch, "", nil), nil
	}

	// Rule 8: any signal at all.
	if !event.Hints.Empty() {
		return s.qualified(event, now, domainintake.ReasonWeakSignal, scoreWeakSignal, priorityWeakSignal, "", nil), nil
	}

	// Rule 9: nothing to go on.
	rejection := domainintake.NewRejectionRecord(
		event, now, domainintake.ReasonNoSignal,
		"no qualifying signal in submission",
		[]string{
			"add a case_id, case_name, entity_names or doc_type hint",
			"or submit via a higher-trust source",
		},
	)
	return QualifyResult{Decision: DecisionRejected, Rejection: &rejection}, nil
}

func (s *Service) qualified(
	event domainintake.ConsiderationEvent,
	qualifiedAt string,
	reason domainintake.Reason,
	score float64,
	basePriority int,
	matchedCaseID string,
	matchedEntityIDs []string,
) QualifyResult {
	intakeEvent := domainintake.IntakeEvent{
		ConsiderationEvent: event,
		IntakeID:           newIntakeID(),
		QualifiedAt:        qualifiedAt,
		Reason:             reason,
		Score:              score,
		MatchedCaseID:      matchedCaseID,
		MatchedEntityIDs:   matchedEntityIDs,
		Priority:           domainintake.CombinePriority(basePriority, event.Hints.Urgent),
	}
	return QualifyResult{Decision: DecisionQualified, Intake: &intakeEvent}
}

func missingFields(event domainintake.ConsiderationEvent) []string {
	var missing []string
	if _, err := domainintake.ParseSource(string(event.Source)); err != nil {
		missing = append(missing, "source")
	}
	if strings.TrimSpace(event.SourceRef) == "" {
		missing = append(missing, "source_ref")
	}
	if strings.TrimSpace(event.FileName) == "" {
		missing = append(missing, "file_name")
	}
	if event.SizeBytes < 0 {
		missing = append(missing, "size_bytes")
	}
	return missing
}

func caseIsLive(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "pending":
		return true
	}
	return false
}
