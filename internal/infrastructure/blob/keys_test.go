package blob

import (
	"testing"
	"time"
)

func TestDocumentKey(t *testing.T) {
	at := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	key := DocumentKey(at, "doc-1", "Lease Agreement (final).pdf")
	want := "intake/2026/08/31/doc-1/Lease_Agreement__final_.pdf"
	if key != want {
		t.Fatalf("DocumentKey() = %q, want %q", key, want)
	}
}

func TestDocumentKeyStripsPath(t *testing.T) {
	at := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	key := DocumentKey(at, "doc-2", "../../etc/passwd")
	if key != "intake/2026/08/31/doc-2/passwd" {
		t.Fatalf("DocumentKey() = %q", key)
	}
}

func TestRejectionKey(t *testing.T) {
	key := RejectionKey("2026-08-31T10:30:00Z", "sub-1")
	if key != "rejections/dt=2026-08-31/sub-1.json" {
		t.Fatalf("RejectionKey() = %q", key)
	}

	key = RejectionKey("not a timestamp", "sub-2")
	if key != "rejections/dt=unknown/sub-2.json" {
		t.Fatalf("RejectionKey() fallback = %q", key)
	}
}
