package blob

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// DocumentKey builds the date-partitioned, document-id-qualified storage key.
// Content-addressed layout makes overwrites idempotent.
func DocumentKey(now time.Time, documentID string, fileName string) string {
	return fmt.Sprintf(
		"intake/%s/%s/%s",
		now.UTC().Format("2006/01/02"),
		documentID,
		sanitizeFileName(fileName),
	)
}

// RejectionKey partitions rejection records by date then submission id.
func RejectionKey(rejectedAt string, submissionID string) string {
	day := "unknown"
	if parsed, err := time.Parse(time.RFC3339Nano, rejectedAt); err == nil {
		day = parsed.UTC().Format("2006-01-02")
	} else if parsed, err := time.Parse(time.RFC3339, rejectedAt); err == nil {
		day = parsed.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("rejections/dt=%s/%s.json", day, submissionID)
}

func sanitizeFileName(fileName string) string {
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
