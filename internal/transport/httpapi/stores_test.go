package httpapi

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
)

type memoryStores struct {
	cases    *memCaseReader
	docs     *memDocRepo
	logs     *memLogRepo
	rejects  *memRejRepo
	blobs    *memBlobStore
	archive  *memArchive
	workflow *memWorkflow
	registry *memRegistry
}

func newMemoryStores() *memoryStores {
	return &memoryStores{
		cases:    &memCaseReader{},
		docs:     &memDocRepo{byHash: map[string]ports.DocumentRecord{}, byID: map[string]ports.DocumentRecord{}},
		logs:     &memLogRepo{},
		rejects:  &memRejRepo{rows: map[string]ports.RejectionRow{}},
		blobs:    &memBlobStore{},
		archive:  &memArchive{},
		workflow: &memWorkflow{},
		registry: &memRegistry{},
	}
}

type memCaseReader struct{}

func (m *memCaseReader) GetCaseByNumber(context.Context, string) (ports.CaseSummary, error) {
	return ports.CaseSummary{}, ports.ErrCaseNotFound
}

func (m *memCaseReader) SearchCasesByName(context.Context, string) ([]ports.CaseSummary, error) {
	return nil, nil
}

func (m *memCaseReader) SearchEntitiesByName(context.Context, []string) ([]ports.EntitySummary, error) {
	return nil, nil
}

type memDocRepo struct {
	mu     sync.Mutex
	byHash map[string]ports.DocumentRecord
	byID   map[string]ports.DocumentRecord
}

func (m *memDocRepo) Insert(_ context.Context, record ports.DocumentRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHash[record.ContentHash]; ok {
		return false, nil
	}
	m.byHash[record.ContentHash] = record
	m.byID[record.DocumentID] = record
	return true, nil
}

func (m *memDocRepo) FindByHash(_ context.Context, contentHash string) (ports.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record, ok := m.byHash[contentHash]; ok {
		return record, nil
	}
	return ports.DocumentRecord{}, ports.ErrDocumentNotFound
}

func (m *memDocRepo) FindByID(_ context.Context, documentID string) (ports.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record, ok := m.byID[documentID]; ok {
		return record, nil
	}
	return ports.DocumentRecord{}, ports.ErrDocumentNotFound
}

func (m *memDocRepo) SetWorkflowRun(_ context.Context, documentID, runID, status, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.byID[documentID]
	if !ok {
		return ports.ErrDocumentNotFound
	}
	record.WorkflowRunID = runID
	record.Status = status
	record.UpdatedAt = updatedAt
	m.byID[documentID] = record
	m.byHash[record.ContentHash] = record
	return nil
}

func (m *memDocRepo) SetStatus(_ context.Context, documentID, status, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.byID[documentID]
	if !ok {
		return ports.ErrDocumentNotFound
	}
	record.Status = status
	record.UpdatedAt = updatedAt
	m.byID[documentID] = record
	m.byHash[record.ContentHash] = record
	return nil
}

type memLogRepo struct {
	mu      sync.Mutex
	entries []ports.IntakeLogEntry
}

func (m *memLogRepo) Append(_ context.Context, entry ports.IntakeLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.LogID = uint64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memLogRepo) FindLatestBySubmission(_ context.Context, submissionID string) (ports.IntakeLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].SubmissionID == submissionID {
			return m.entries[i], nil
		}
	}
	return ports.IntakeLogEntry{}, ports.ErrSubmissionNotFound
}

func (m *memLogRepo) CountByOutcomeSince(_ context.Context, since string) ([]ports.OutcomeCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	for _, entry := range m.entries {
		if entry.CreatedAt >= since {
			counts[entry.Outcome]++
		}
	}
	out := make([]ports.OutcomeCount, 0, len(counts))
	for outcome, count := range counts {
		out = append(out, ports.OutcomeCount{Outcome: outcome, Count: count})
	}
	return out, nil
}

type memRejRepo struct {
	mu   sync.Mutex
	rows map[string]ports.RejectionRow
}

func (m *memRejRepo) Save(_ context.Context, row ports.RejectionRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[row.SubmissionID]; !ok {
		m.rows[row.SubmissionID] = row
	}
	return nil
}

func (m *memRejRepo) GetBySubmission(_ context.Context, submissionID string) (ports.RejectionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[submissionID]; ok {
		return row, nil
	}
	return ports.RejectionRow{}, ports.ErrSubmissionNotFound
}

type memBlobStore struct {
	mu   sync.Mutex
	puts []ports.BlobPut
}

func (m *memBlobStore) Put(_ context.Context, put ports.BlobPut) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, put)
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, put := range m.puts {
		if put.Key == key {
			return put.Body, put.ContentType, nil
		}
	}
	return nil, "", fmt.Errorf("blob %s not found", key)
}

type memArchive struct {
	mu   sync.Mutex
	keys []string
}

func (m *memArchive) Archive(_ context.Context, submissionID string, _ string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "rejections/dt=2026-08-31/" + submissionID + ".json"
	m.keys = append(m.keys, key)
	return key, nil
}

type memWorkflow struct {
	mu      sync.Mutex
	started int
}

func (m *memWorkflow) StartRun(context.Context, ports.WorkflowStartInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return fmt.Sprintf("run-%d", m.started), nil
}

type memFetcher struct{}

func (memFetcher) CanHandle(domainintake.Source) bool { return true }

func (memFetcher) Fetch(_ context.Context, sourceRef string) (ports.FetchResult, error) {
	// Distinct bytes per reference so dedup only fires for true duplicates.
	return ports.FetchResult{
		Bytes:       []byte("content of " + strings.TrimSpace(sourceRef)),
		ContentType: "application/pdf",
	}, nil
}

type memRegistry struct{}

func (memRegistry) Select(domainintake.Source) (ports.SourceFetcher, error) {
	return memFetcher{}, nil
}
