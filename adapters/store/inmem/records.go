package inmem

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
)

// RecordRepository keeps LocalRecord documents in memory. Path still
// reports where a file-backed store rooted at Dir would place them.
type RecordRepository struct {
	Dir string

	mu      sync.RWMutex
	records map[string]*model.LocalRecord
}

func NewRecordRepository(dir string) *RecordRepository {
	return &RecordRepository{Dir: dir, records: make(map[string]*model.LocalRecord)}
}

func (r *RecordRepository) Path(slug string) string {
	return filepath.Join(r.Dir, slug+".json")
}

func (r *RecordRepository) Save(_ context.Context, slug string, rec *model.LocalRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, existed := r.records[slug]
	r.records[slug] = copyRecord(rec)
	return existed, nil
}

func (r *RecordRepository) Get(_ context.Context, slug string) (*model.LocalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[slug]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, model.ErrRecordNotFound)
	}
	return copyRecord(rec), nil
}

func (r *RecordRepository) List(_ context.Context) (map[string]*model.LocalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*model.LocalRecord, len(r.records))
	for k, v := range r.records {
		out[k] = copyRecord(v)
	}
	return out, nil
}

func copyRecord(rec *model.LocalRecord) *model.LocalRecord {
	cp := *rec
	cp.Packager.IgnoredPaths = append([]string(nil), rec.Packager.IgnoredPaths...)
	if rec.Remote != nil {
		remote := *rec.Remote
		cp.Remote = &remote
	}
	return &cp
}

var _ domain.RecordRepository = (*RecordRepository)(nil)
