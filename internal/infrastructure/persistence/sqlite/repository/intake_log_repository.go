package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/infrastructure/persistence/sqlite/model"
	"github.com/chittyos/intake/internal/ports"
)

type IntakeLogRepository struct {
	db *gorm.DB
}

func NewIntakeLogRepository(db *gorm.DB) *IntakeLogRepository {
	return &IntakeLogRepository{db: db}
}

func (r *IntakeLogRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *IntakeLogRepository) Append(ctx context.Context, entry ports.IntakeLogEntry) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.IntakeLog{
		SubmissionID:  entry.SubmissionID,
		Outcome:       entry.Outcome,
		Reason:        entry.Reason,
		Score:         entry.Score,
		Priority:      entry.Priority,
		DocumentID:    entry.DocumentID,
		WorkflowRunID: entry.WorkflowRunID,
		Source:        entry.Source,
		FileName:      entry.FileName,
		Detail:        entry.Detail,
		ElapsedMS:     entry.ElapsedMS,
		CreatedAt:     entry.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert intake log")
	}
	return nil
}

func (r *IntakeLogRepository) FindLatestBySubmission(ctx context.Context, submissionID string) (ports.IntakeLogEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.IntakeLogEntry{}, err
	}

	var row model.IntakeLog
	if err := db.
		Where("submission_id = ?", submissionID).
		Order("log_id desc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IntakeLogEntry{}, ports.ErrSubmissionNotFound
		}
		return ports.IntakeLogEntry{}, errs.Wrap(err, "query intake log")
	}
	return mapIntakeLog(row), nil
}

func (r *IntakeLogRepository) CountByOutcomeSince(ctx context.Context, since string) ([]ports.OutcomeCount, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var counts []ports.OutcomeCount
	if err := db.Model(&model.IntakeLog{}).
		Select("outcome, count(*) as count").
		Where("created_at >= ?", since).
		Group("outcome").
		Order("outcome asc").
		Scan(&counts).Error; err != nil {
		return nil, errs.Wrap(err, "count intake log outcomes")
	}
	return counts, nil
}

func mapIntakeLog(row model.IntakeLog) ports.IntakeLogEntry {
	return ports.IntakeLogEntry{
		LogID:         row.LogID,
		SubmissionID:  row.SubmissionID,
		Outcome:       row.Outcome,
		Reason:        row.Reason,
		Score:         row.Score,
		Priority:      row.Priority,
		DocumentID:    row.DocumentID,
		WorkflowRunID: row.WorkflowRunID,
		Source:        row.Source,
		FileName:      row.FileName,
		Detail:        row.Detail,
		ElapsedMS:     row.ElapsedMS,
		CreatedAt:     row.CreatedAt,
	}
}
