package intake

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func newSubmissionID() string {
	return "sub-" + uuid.NewString()
}

func newIntakeID() string {
	return "intk-" + uuid.NewString()
}

func newDocumentID() string {
	return "doc-" + uuid.NewString()
}

func joinEntityIDs(ids []string) string {
	return strings.Join(ids, ",")
}
