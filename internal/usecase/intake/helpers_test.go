package intake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
)

type fakeCaseReader struct {
	casesByNumber map[string]ports.CaseSummary
	entities      []ports.EntitySummary
	failWith      error
}

func (f *fakeCaseReader) GetCaseByNumber(_ context.Context, caseNumber string) (ports.CaseSummary, error) {
	if f.failWith != nil {
		return ports.CaseSummary{}, f.failWith
	}
	if found, ok := f.casesByNumber[caseNumber]; ok {
		return found, nil
	}
	return ports.CaseSummary{}, ports.ErrCaseNotFound
}

func (f *fakeCaseReader) SearchCasesByName(_ context.Context, fragment string) ([]ports.CaseSummary, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var matches []ports.CaseSummary
	for _, summary := range f.casesByNumber {
		if strings.Contains(strings.ToLower(summary.Title), strings.ToLower(fragment)) {
			matches = append(matches, summary)
		}
	}
	return matches, nil
}

func (f *fakeCaseReader) SearchEntitiesByName(_ context.Context, names []string) ([]ports.EntitySummary, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var matches []ports.EntitySummary
	for _, entity := range f.entities {
		for _, name := range names {
			if strings.Contains(strings.ToLower(entity.Name), strings.ToLower(name)) {
				matches = append(matches, entity)
				break
			}
		}
	}
	return matches, nil
}

type fakeDocRepo struct {
	mu     sync.Mutex
	byHash map[string]ports.DocumentRecord
	byID   map[string]ports.DocumentRecord
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{
		byHash: make(map[string]ports.DocumentRecord),
		byID:   make(map[string]ports.DocumentRecord),
	}
}

func (f *fakeDocRepo) Insert(_ context.Context, record ports.DocumentRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byHash[record.ContentHash]; ok {
		return false, nil
	}
	f.byHash[record.ContentHash] = record
	f.byID[record.DocumentID] = record
	return true, nil
}

func (f *fakeDocRepo) FindByHash(_ context.Context, contentHash string) (ports.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.byHash[contentHash]; ok {
		return record, nil
	}
	return ports.DocumentRecord{}, ports.ErrDocumentNotFound
}

func (f *fakeDocRepo) FindByID(_ context.Context, documentID string) (ports.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.byID[documentID]; ok {
		return record, nil
	}
	return ports.DocumentRecord{}, ports.ErrDocumentNotFound
}

func (f *fakeDocRepo) SetWorkflowRun(_ context.Context, documentID string, runID string, status string, updatedAt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.byID[documentID]
	if !ok {
		return ports.ErrDocumentNotFound
	}
	record.WorkflowRunID = runID
	record.Status = status
	record.UpdatedAt = updatedAt
	f.byID[documentID] = record
	f.byHash[record.ContentHash] = record
	return nil
}

func (f *fakeDocRepo) SetStatus(_ context.Context, documentID string, status string, updatedAt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.byID[documentID]
	if !ok {
		return ports.ErrDocumentNotFound
	}
	record.Status = status
	record.UpdatedAt = updatedAt
	f.byID[documentID] = record
	f.byHash[record.ContentHash] = record
	return nil
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []ports.IntakeLogEntry
}

func (f *fakeLogRepo) Append(_ context.Context, entry ports.IntakeLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.LogID = uint64(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogRepo) FindLatestBySubmission(_ context.Context, submissionID string) (ports.IntakeLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].SubmissionID == submissionID {
			return f.entries[i], nil
		}
	}
	return ports.IntakeLogEntry{}, ports.ErrSubmissionNotFound
}

func (f *fakeLogRepo) CountByOutcomeSince(_ context.Context, since string) ([]ports.OutcomeCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, entry := range f.entries {
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

func (f *fakeLogRepo) outcomes(submissionID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, entry := range f.entries {
		if entry.SubmissionID == submissionID {
			out = append(out, entry.Outcome)
		}
	}
	return out
}

type fakeRejRepo struct {
	mu   sync.Mutex
	rows map[string]ports.RejectionRow
}

func newFakeRejRepo() *fakeRejRepo {
	return &fakeRejRepo{rows: make(map[string]ports.RejectionRow)}
}

func (f *fakeRejRepo) Save(_ context.Context, row ports.RejectionRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[row.SubmissionID]; !ok {
		f.rows[row.SubmissionID] = row
	}
	return nil
}

func (f *fakeRejRepo) GetBySubmission(_ context.Context, submissionID string) (ports.RejectionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[submissionID]; ok {
		return row, nil
	}
	return ports.RejectionRow{}, ports.ErrSubmissionNotFound
}

type fakeBlobStore struct {
	mu   sync.Mutex
	puts []ports.BlobPut
}

func (f *fakeBlobStore) Put(_ context.Context, put ports.BlobPut) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, put)
	return nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, put := range f.puts {
		if put.Key == key {
			return put.Body, put.ContentType, nil
		}
	}
	return nil, "", fmt.Errorf("blob %s not found", key)
}

type fakeArchive struct {
	mu       sync.Mutex
	archived []string
}

func (f *fakeArchive) Archive(_ context.Context, submissionID string, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, submissionID)
	return "rejections/dt=2026-08-31/" + submissionID + ".json", nil
}

type fakeWorkflow struct {
	mu       sync.Mutex
	failWith error
	started  []ports.WorkflowStartInput
}

func (f *fakeWorkflow) StartRun(_ context.Context, input ports.WorkflowStartInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.started = append(f.started, input)
	return fmt.Sprintf("run-%d", len(f.started)), nil
}

type fakeFetcher struct {
	bytes       []byte
	contentType string
	failWith    error
}

func (f *fakeFetcher) CanHandle(domainintake.Source) bool { return true }

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (ports.FetchResult, error) {
	if f.failWith != nil {
		return ports.FetchResult{}, f.failWith
	}
	return ports.FetchResult{Bytes: f.bytes, ContentType: f.contentType}, nil
}

type fakeRegistry struct {
	fetcher ports.SourceFetcher
}

func (f *fakeRegistry) Select(domainintake.Source) (ports.SourceFetcher, error) {
	if f.fetcher == nil {
		return nil, ports.ErrNoFetcher
	}
	return f.fetcher, nil
}

type serviceFixture struct {
	service  *Service
	cases    *fakeCaseReader
	docs     *fakeDocRepo
	logs     *fakeLogRepo
	rejects  *fakeRejRepo
	blobs    *fakeBlobStore
	archive  *fakeArchive
	workflow *fakeWorkflow
	fetcher  *fakeFetcher
}

func newFixture() *serviceFixture {
	fixture := &serviceFixture{
		cases:    &fakeCaseReader{casesByNumber: make(map[string]ports.CaseSummary)},
		docs:     newFakeDocRepo(),
		logs:     &fakeLogRepo{},
		rejects:  newFakeRejRepo(),
		blobs:    &fakeBlobStore{},
		archive:  &fakeArchive{},
		workflow: &fakeWorkflow{},
		fetcher:  &fakeFetcher{bytes: []byte("document bytes"), contentType: "application/pdf"},
	}
	fixture.service = NewService(
		fixture.cases,
		fixture.docs,
		fixture.logs,
		fixture.rejects,
		nil,
		fixture.blobs,
		fixture.archive,
		nil,
		fixture.workflow,
		&fakeRegistry{fetcher: fixture.fetcher},
	)
	return fixture
}
