package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/infrastructure/persistence/sqlite/model"
	"github.com/chittyos/intake/internal/ports"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// Insert relies on the unique index on content_hash: a conflicting insert is
// a no-op and inserted=false tells the caller a document with that hash
// already won the race.
func (r *DocumentRepository) Insert(ctx context.Context, record ports.DocumentRecord) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	row := model.Document{
		DocumentID:    record.DocumentID,
		ContentHash:   record.ContentHash,
		StorageKey:    record.StorageKey,
		FileName:      record.FileName,
		SizeBytes:     record.SizeBytes,
		MimeType:      record.MimeType,
		Status:        record.Status,
		Source:        record.Source,
		SourceRef:     record.SourceRef,
		Reason:        record.Reason,
		Score:         record.Score,
		MatchedCaseID: record.MatchedCaseID,
		WorkflowRunID: record.WorkflowRunID,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_hash"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "insert document")
	}
	return result.RowsAffected > 0, nil
}

func (r *DocumentRepository) FindByHash(ctx context.Context, contentHash string) (ports.DocumentRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.DocumentRecord{}, err
	}

	var row model.Document
	if err := db.Where("content_hash = ?", contentHash).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DocumentRecord{}, ports.ErrDocumentNotFound
		}
		return ports.DocumentRecord{}, errs.Wrap(err, "query document by hash")
	}
	return mapDocument(row), nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, documentID string) (ports.DocumentRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.DocumentRecord{}, err
	}

	var row model.Document
	if err := db.Where("document_id = ?", documentID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DocumentRecord{}, ports.ErrDocumentNotFound
		}
		return ports.DocumentRecord{}, errs.Wrap(err, "query document by id")
	}
	return mapDocument(row), nil
}

func (r *DocumentRepository) SetWorkflowRun(ctx context.Context, documentID string, runID string, status string, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&model.Document{}).
		Where("document_id = ?", documentID).
		Updates(map[string]any{
			"workflow_run_id": runID,
			"status":          status,
			"updated_at":      updatedAt,
		}).Error; err != nil {
		return errs.Wrap(err, "update document workflow run")
	}
	return nil
}

func (r *DocumentRepository) SetStatus(ctx context.Context, documentID string, status string, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&model.Document{}).
		Where("document_id = ?", documentID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		}).Error; err != nil {
		return errs.Wrap(err, "update document status")
	}
	return nil
}

func mapDocument(row model.Document) ports.DocumentRecord {
	return ports.DocumentRecord{
		DocumentID:    row.DocumentID,
		ContentHash:   row.ContentHash,
		StorageKey:    row.StorageKey,
		FileName:      row.FileName,
		SizeBytes:     row.SizeBytes,
		MimeType:      row.MimeType,
		Status:        row.Status,
		Source:        row.Source,
		SourceRef:     row.SourceRef,
		Reason:        row.Reason,
		Score:         row.Score,
		MatchedCaseID: row.MatchedCaseID,
		WorkflowRunID: row.WorkflowRunID,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
