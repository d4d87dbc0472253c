package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
)

// HistoryRepository is a thread-safe in-memory implementation.
type HistoryRepository struct {
	mu     sync.RWMutex
	events []*model.ProvisionEvent
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Append(_ context.Context, ev *model.ProvisionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.ID == "" {
		ev.ID = "ev-" + uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	// Copy to avoid external mutation.
	cp := *ev
	r.events = append(r.events, &cp)
	return nil
}

// List returns events oldest first.
func (r *HistoryRepository) List(_ context.Context) ([]*model.ProvisionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.ProvisionEvent, 0, len(r.events))
	for _, v := range r.events {
		cp := *v
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var _ domain.HistoryRepository = (*HistoryRepository)(nil)
