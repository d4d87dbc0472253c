package rdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
	"gorm.io/gorm"
)

type HistoryRepository struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) *HistoryRepository { return &HistoryRepository{db: db} }

func eventToRecord(e *model.ProvisionEvent) *ProvisionEventRecord {
	return &ProvisionEventRecord{
		ID:         e.ID,
		Title:      e.Title,
		Slug:       e.Slug,
		Language:   e.Language,
		RecordPath: e.RecordPath,
		RemoteID:   e.RemoteID,
		RemoteURL:  e.RemoteURL,
		Advisories: e.Advisories,
		CreatedAt:  e.CreatedAt,
	}
}

func eventToModel(r *ProvisionEventRecord) *model.ProvisionEvent {
	return &model.ProvisionEvent{
		ID:         r.ID,
		Title:      r.Title,
		Slug:       r.Slug,
		Language:   r.Language,
		RecordPath: r.RecordPath,
		RemoteID:   r.RemoteID,
		RemoteURL:  r.RemoteURL,
		Advisories: r.Advisories,
		CreatedAt:  r.CreatedAt,
	}
}

func (r *HistoryRepository) Append(ctx context.Context, e *model.ProvisionEvent) error {
	if e.ID == "" {
		e.ID = "ev-" + uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(eventToRecord(e)).Error
}

func (r *HistoryRepository) List(ctx context.Context) ([]*model.ProvisionEvent, error) {
	var recs []ProvisionEventRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.ProvisionEvent, 0, len(recs))
	for i := range recs {
		out = append(out, eventToModel(&recs[i]))
	}
	return out, nil
}

var _ domain.HistoryRepository = (*HistoryRepository)(nil)
