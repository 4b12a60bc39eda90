package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/infrastructure/persistence/sqlite/model"
	"github.com/chittyos/intake/internal/ports"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *CaseRepository) GetCaseByNumber(ctx context.Context, caseNumber string) (ports.CaseSummary, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CaseSummary{}, err
	}

	var row model.Case
	if err := db.Where("case_number = ?", strings.TrimSpace(caseNumber)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CaseSummary{}, ports.ErrCaseNotFound
		}
		return ports.CaseSummary{}, errs.Wrap(err, "query case by number")
	}
	return mapCase(row), nil
}

func (r *CaseRepository) SearchCasesByName(ctx context.Context, fragment string) ([]ports.CaseSummary, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.TrimSpace(fragment)
	if needle == "" {
		return nil, nil
	}

	var rows []model.Case
	if err := db.
		Where("lower(title) LIKE ?", "%"+strings.ToLower(needle)+"%").
		Order("case_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "search cases by name")
	}

	items := make([]ports.CaseSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCase(row))
	}
	return items, nil
}

func (r *CaseRepository) SearchEntitiesByName(ctx context.Context, names []string) ([]ports.EntitySummary, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ports.EntitySummary, 0, len(names))
	seen := make(map[string]struct{})
	for _, raw := range names {
		needle := strings.ToLower(strings.TrimSpace(raw))
		if needle == "" {
			continue
		}

		var rows []model.CaseEntity
		if err := db.
			Where("lower(name) LIKE ?", "%"+needle+"%").
			Order("entity_id asc").
			Find(&rows).Error; err != nil {
			return nil, errs.Wrap(err, "search entities by name")
		}

		for _, row := range rows {
			if _, ok := seen[row.EntityID]; ok {
				continue
			}
			seen[row.EntityID] = struct{}{}

			item := ports.EntitySummary{
				EntityID:     row.EntityID,
				Name:         row.Name,
				LinkedCaseID: row.LinkedCaseID,
			}
			if row.LinkedCaseID != "" {
				var linked model.Case
				if err := db.Where("case_id = ?", row.LinkedCaseID).Take(&linked).Error; err == nil {
					item.LinkedCaseStatus = linked.Status
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, errs.Wrap(err, "query linked case")
				}
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func mapCase(row model.Case) ports.CaseSummary {
	return ports.CaseSummary{
		CaseID:     row.CaseID,
		CaseNumber: row.CaseNumber,
		Title:      row.Title,
		Status:     row.Status,
	}
}
