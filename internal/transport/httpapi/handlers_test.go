package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	usecase "github.com/chittyos/intake/internal/usecase/intake"
)

// The handlers sit on a service wired with the usecase package's fakes, but
// those live in the other package. A minimal local stack is enough: a service
// with in-memory stores exercised through real HTTP round trips.
func newTestServer(t *testing.T) (*httptest.Server, *memoryStores) {
	t.Helper()

	stores := newMemoryStores()
	service := usecase.NewService(
		stores.cases,
		stores.docs,
		stores.logs,
		stores.rejects,
		nil,
		stores.blobs,
		stores.archive,
		nil,
		stores.workflow,
		stores.registry,
	)

	server := httptest.NewServer(NewRouter(NewHandler(service)))
	t.Cleanup(server.Close)
	return server, stores
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestConsiderEndpointSyncOutcome(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/consider", map[string]any{
		"source":     "client_portal",
		"source_ref": "portal://abc",
		"file_name":  "lease.pdf",
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	var body considerResponse
	decodeBody(t, resp, &body)
	if body.Status != "qualified" || body.Outcome != "stored" {
		t.Fatalf("body = %+v", body)
	}
	if body.SubmissionID == "" || body.DocumentID == "" {
		t.Fatalf("missing ids: %+v", body)
	}
}

func TestConsiderEndpointRejectsBadJSON(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/consider", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBatchEndpointValidation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/consider/batch", map[string]any{"documents": []any{}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty batch status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/consider/batch", map[string]any{
		"documents": []map[string]any{
			{"source": "cloud_drive", "file_name": "a.pdf"},
		},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing source_ref status = %d, want 400", resp.StatusCode)
	}

	oversize := make([]map[string]any, usecase.MaxBatchSize+1)
	for i := range oversize {
		oversize[i] = map[string]any{"source": "cloud_drive", "source_ref": "drive://x", "file_name": "x.pdf"}
	}
	resp = postJSON(t, server.URL+"/consider/batch", map[string]any{"documents": oversize})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversize batch status = %d, want 400", resp.StatusCode)
	}
}

func TestBatchEndpointReturnsPerDocumentResults(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/consider/batch", map[string]any{
		"documents": []map[string]any{
			{"source": "client_portal", "source_ref": "portal://a", "file_name": "lease.pdf"},
			{"source": "cloud_drive", "source_ref": "drive://b", "file_name": "notes.txt"},
		},
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	var body considerBatchResponse
	decodeBody(t, resp, &body)
	if len(body.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(body.Results))
	}
	if body.Results[0].Status != "qualified" || body.Results[1].Status != "rejected" {
		t.Fatalf("results = %+v", body.Results)
	}
}

func TestStatusEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/consider", map[string]any{
		"source":     "cloud_drive",
		"source_ref": "drive://file-1",
		"file_name":  "notes.txt",
	})
	var submitted considerResponse
	decodeBody(t, resp, &submitted)

	statusResp, err := http.Get(server.URL + "/consider/" + submitted.SubmissionID)
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	if statusResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", statusResp.StatusCode)
	}
	var status statusResponse
	decodeBody(t, statusResp, &status)
	if status.Outcome != "rejected" || !status.CanRetry {
		t.Fatalf("status body = %+v", status)
	}

	missing, err := http.Get(server.URL + "/consider/sub-unknown")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown submission status = %d, want 404", missing.StatusCode)
	}
}

func TestRetryEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/consider", map[string]any{
		"source":     "cloud_drive",
		"source_ref": "drive://file-1",
		"file_name":  "notes.txt",
	})
	var rejected considerResponse
	decodeBody(t, resp, &rejected)
	if rejected.Status != "rejected" {
		t.Fatalf("setup: %+v", rejected)
	}

	retryResp := postJSON(t, server.URL+"/consider/retry/"+rejected.SubmissionID, map[string]any{
		"hints": map[string]any{"doc_type": "contract"},
	})
	if retryResp.StatusCode != http.StatusAccepted {
		t.Fatalf("retry status = %d, want 202", retryResp.StatusCode)
	}
	var retried considerResponse
	decodeBody(t, retryResp, &retried)
	if retried.Status != "qualified" || retried.Reason != "doc_type_match" {
		t.Fatalf("retried = %+v", retried)
	}
	if retried.SubmissionID == rejected.SubmissionID {
		t.Fatalf("retry must produce a fresh submission id")
	}

	notFound := postJSON(t, server.URL+"/consider/retry/sub-unknown", map[string]any{})
	notFound.Body.Close()
	if notFound.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown retry status = %d, want 404", notFound.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/consider", map[string]any{
		"source":     "client_portal",
		"source_ref": "portal://a",
		"file_name":  "lease.pdf",
	})
	resp.Body.Close()

	statsResp, err := http.Get(server.URL + "/consider/stats?window=1h")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	if statsResp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d, want 200", statsResp.StatusCode)
	}
	var stats statsResponse
	decodeBody(t, statsResp, &stats)
	if stats.Total != 1 || stats.Counts["stored"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	bad, err := http.Get(server.URL + "/consider/stats?window=yesterday")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad window status = %d, want 400", bad.StatusCode)
	}
}
