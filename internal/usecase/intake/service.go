// Package intake wires the document pipeline: qualification of consideration
// events, intake of qualified events, and the collection-side operations
// (status, retry, stats) built on the same stores.
package intake

import (
	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
)

type Service struct {
	caseReader ports.CaseReader
	docRepo    ports.DocumentRepository
	logRepo    ports.IntakeLogRepository
	rejRepo    ports.RejectionRepository
	uow        ports.UnitOfWork
	blob       ports.BlobStore
	archive    ports.RejectionArchive
	stream     ports.EventStream
	workflow   ports.WorkflowEngine
	fetchers   FetcherRegistry
}

// FetcherRegistry is the dispatch surface of the fetch registry; selection is
// by source tag, first registered match wins.
type FetcherRegistry interface {
	Select(source domainintake.Source) (ports.SourceFetcher, error)
}

// NewService builds the pipeline service. The stream may be nil: the pipeline
// then degrades to the synchronous path.
func NewService(
	caseReader ports.CaseReader,
	docRepo ports.DocumentRepository,
	logRepo ports.IntakeLogRepository,
	rejRepo ports.RejectionRepository,
	uow ports.UnitOfWork,
	blob ports.BlobStore,
	archive ports.RejectionArchive,
	stream ports.EventStream,
	workflow ports.WorkflowEngine,
	fetchers FetcherRegistry,
) *Service {
	return &Service{
		caseReader: caseReader,
		docRepo:    docRepo,
		logRepo:    logRepo,
		rejRepo:    rejRepo,
		uow:        uow,
		blob:       blob,
		archive:    archive,
		stream:     stream,
		workflow:   workflow,
		fetchers:   fetchers,
	}
}
