package workspace

import (
	"context"
	"sort"

	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/naming"
)

// RecordEntry is a stored record with its identity.
type RecordEntry struct {
	Slug   string             `json:"slug" yaml:"slug"`
	Path   string             `json:"path" yaml:"path"`
	Record *model.LocalRecord `json:"record" yaml:"record"`
}

// ListRecordsInput defines optional filters for listing records.
type ListRecordsInput struct {
	// Language keeps only records of this language when set.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// ListRecordsOutput wraps listed records sorted by slug.
type ListRecordsOutput struct {
	Records []*RecordEntry `json:"records" yaml:"records"`
}

// ListRecords returns all local records.
func (u *UseCase) ListRecords(ctx context.Context, in *ListRecordsInput) (*ListRecordsOutput, error) {
	items, err := u.Repos.Records.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &ListRecordsOutput{Records: make([]*RecordEntry, 0, len(items))}
	for slug, rec := range items {
		if in != nil && in.Language != "" && rec.Language != in.Language {
			continue
		}
		out.Records = append(out.Records, &RecordEntry{Slug: slug, Path: u.Repos.Records.Path(slug), Record: rec})
	}
	sort.Slice(out.Records, func(i, j int) bool { return out.Records[i].Slug < out.Records[j].Slug })
	return out, nil
}

// GetRecordInput names a record by title or slug.
type GetRecordInput struct {
	Name string `json:"name" yaml:"name"`
}

// GetRecord returns a single record.
func (u *UseCase) GetRecord(ctx context.Context, in *GetRecordInput) (*RecordEntry, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrRequestInvalid
	}
	slug := naming.SlugFromArg(in.Name)
	rec, err := u.Repos.Records.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &RecordEntry{Slug: slug, Path: u.Repos.Records.Path(slug), Record: rec}, nil
}
