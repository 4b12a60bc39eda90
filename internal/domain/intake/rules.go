package intake

import "strings"

// urgentPriorityFloor is what an urgent hint raises a qualified submission's
// priority to. Combination with a rule's base priority is max, not sum, so
// the result never depends on evaluation order.
const urgentPriorityFloor = 98

// docTypeVocabulary is the closed set of legally relevant document-type
// keywords matched against the type hint and file name.
var docTypeVocabulary = []string{
	"motion",
	"order",
	"affidavit",
	"contract",
	"brief",
	"subpoena",
	"deposition",
	"exhibit",
	"complaint",
	"answer",
	"judgment",
	"lease",
	"agreement",
	"settlement",
	"warrant",
}

// MatchDocType reports the first vocabulary keyword found in the type hint
// or file name, case-insensitive.
func MatchDocType(docTypeHint string, fileName string) (string, bool) {
	haystacks := []string{
		strings.ToLower(strings.TrimSpace(docTypeHint)),
		strings.ToLower(strings.TrimSpace(fileName)),
	}
	for _, keyword := range docTypeVocabulary {
		for _, haystack := range haystacks {
			if haystack == "" {
				continue
			}
			if strings.Contains(haystack, keyword) {
				return keyword, true
			}
		}
	}
	return "", false
}

// CombinePriority resolves a rule's base priority against the urgent hint.
func CombinePriority(base int, urgent bool) int {
	if urgent && urgentPriorityFloor > base {
		return urgentPriorityFloor
	}
	return base
}

// MergeHints overlays override on top of original: scalar fields from the
// override win when set, list fields append with duplicates removed, and
// urgent is sticky once either side sets it.
func MergeHints(original Hints, override Hints) Hints {
	merged := original

	if strings.TrimSpace(override.CaseID) != "" {
		merged.CaseID = strings.TrimSpace(override.CaseID)
	}
	if strings.TrimSpace(override.CaseName) != "" {
		merged.CaseName = strings.TrimSpace(override.CaseName)
	}
	if strings.TrimSpace(override.DocType) != "" {
		merged.DocType = strings.TrimSpace(override.DocType)
	}
	if strings.TrimSpace(override.DateHint) != "" {
		merged.DateHint = strings.TrimSpace(override.DateHint)
	}
	merged.Urgent = original.Urgent || override.Urgent
	merged.EntityNames = appendUnique(original.EntityNames, override.EntityNames)
	merged.Tags = appendUnique(original.Tags, override.Tags)

	return merged
}

func appendUnique(base []string, extra []string) []string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, raw := range list {
			item := strings.TrimSpace(raw)
			if item == "" {
				continue
			}
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
