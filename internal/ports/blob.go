package ports

import "context"

// BlobPut describes one durable upload. Metadata travels with the object for
// forensic traceability.
type BlobPut struct {
	Key         string
	ContentType string
	Body        []byte
	Metadata    map[string]string
}

type BlobStore interface {
	Put(ctx context.Context, put BlobPut) error
	Get(ctx context.Context, key string) (body []byte, contentType string, err error)
}

// RejectionArchive is a write-only target: one JSON object per rejected
// submission, date-partitioned. Returns the object key for the index.
type RejectionArchive interface {
	Archive(ctx context.Context, submissionID string, rejectedAt string, payload []byte) (key string, err error)
}
