// Package localfs stores LocalRecord documents as JSON files, one per
// workspace, named after the workspace slug.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/fsutil"
)

// RecordRepository is a domain.RecordRepository rooted at Dir.
type RecordRepository struct {
	Dir string
}

// NewRecordRepository returns a repository writing into dir.
func NewRecordRepository(dir string) *RecordRepository {
	return &RecordRepository{Dir: dir}
}

func (r *RecordRepository) Path(slug string) string {
	return filepath.Join(r.Dir, slug+".json")
}

// Save replaces the document for slug atomically. Colliding slugs overwrite.
func (r *RecordRepository) Save(ctx context.Context, slug string, rec *model.LocalRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path := r.Path(slug)
	existed, err := fsutil.Exists(path)
	if err != nil {
		return false, &model.ConfigurationError{Path: path, Msg: "cannot stat record", Err: err}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return false, &model.ConfigurationError{Path: path, Msg: "cannot encode record", Err: err}
	}
	data = append(data, '\n')
	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		return false, &model.ConfigurationError{Path: path, Msg: "cannot write record", Err: err}
	}
	return existed, nil
}

func (r *RecordRepository) Get(ctx context.Context, slug string) (*model.LocalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.Path(slug)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", slug, model.ErrRecordNotFound)
	}
	if err != nil {
		return nil, &model.ConfigurationError{Path: path, Msg: "cannot read record", Err: err}
	}
	var rec model.LocalRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &model.ConfigurationError{Path: path, Msg: "cannot decode record", Err: err}
	}
	return &rec, nil
}

// List returns every decodable record keyed by slug. A missing directory is
// an empty store.
func (r *RecordRepository) List(ctx context.Context) (map[string]*model.LocalRecord, error) {
	entries, err := os.ReadDir(r.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]*model.LocalRecord{}, nil
	}
	if err != nil {
		return nil, &model.ConfigurationError{Path: r.Dir, Msg: "cannot list records", Err: err}
	}
	out := make(map[string]*model.LocalRecord, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		slug := strings.TrimSuffix(name, ".json")
		rec, err := r.Get(ctx, slug)
		if err != nil {
			var ce *model.ConfigurationError
			if errors.As(err, &ce) {
				continue // not a record document
			}
			return nil, err
		}
		out[slug] = rec
	}
	return out, nil
}

var _ domain.RecordRepository = (*RecordRepository)(nil)
