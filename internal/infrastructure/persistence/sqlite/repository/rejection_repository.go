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

type RejectionRepository struct {
	db *gorm.DB
}

func NewRejectionRepository(db *gorm.DB) *RejectionRepository {
	return &RejectionRepository{db: db}
}

func (r *RejectionRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

// Save is idempotent per submission id; a rejection record is written once
// and never rewritten.
func (r *RejectionRepository) Save(ctx context.Context, rowIn ports.RejectionRow) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Rejection{
		SubmissionID:   rowIn.SubmissionID,
		Source:         rowIn.Source,
		SourceRef:      rowIn.SourceRef,
		SourceHash:     rowIn.SourceHash,
		FileName:       rowIn.FileName,
		SizeBytes:      rowIn.SizeBytes,
		MimeType:       rowIn.MimeType,
		SubmittedBy:    rowIn.SubmittedBy,
		Reason:         rowIn.Reason,
		Detail:         rowIn.Detail,
		CanRetry:       rowIn.CanRetry,
		RetryHintsJSON: rowIn.RetryHintsJSON,
		HintsJSON:      rowIn.HintsJSON,
		ArchiveKey:     rowIn.ArchiveKey,
		RejectedAt:     rowIn.RejectedAt,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert rejection")
	}
	return nil
}

func (r *RejectionRepository) GetBySubmission(ctx context.Context, submissionID string) (ports.RejectionRow, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.RejectionRow{}, err
	}

	var row model.Rejection
	if err := db.Where("submission_id = ?", submissionID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RejectionRow{}, ports.ErrSubmissionNotFound
		}
		return ports.RejectionRow{}, errs.Wrap(err, "query rejection")
	}

	return ports.RejectionRow{
		SubmissionID:   row.SubmissionID,
		Source:         row.Source,
		SourceRef:      row.SourceRef,
		SourceHash:     row.SourceHash,
		FileName:       row.FileName,
		SizeBytes:      row.SizeBytes,
		MimeType:       row.MimeType,
		SubmittedBy:    row.SubmittedBy,
		Reason:         row.Reason,
		Detail:         row.Detail,
		CanRetry:       row.CanRetry,
		RetryHintsJSON: row.RetryHintsJSON,
		HintsJSON:      row.HintsJSON,
		ArchiveKey:     row.ArchiveKey,
		RejectedAt:     row.RejectedAt,
	}, nil
}
