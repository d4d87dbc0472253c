package workspace

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/logging"
)

// BulkEntry is one item of a bulk request file. Missing optional fields take
// configuration defaults.
type BulkEntry struct {
	Title        string  `json:"title"`
	Language     *string `json:"language,omitempty"`
	IsPrivate    *bool   `json:"is_private,omitempty"`
	Template     *string `json:"template,omitempty"`
	TeamID       *string `json:"team_id,omitempty"`
	CreateRemote *bool   `json:"create_remote,omitempty"`
}

// ParseBulkFile decodes a bulk request file. JSON and YAML are accepted.
func ParseBulkFile(path string, data []byte) ([]BulkEntry, error) {
	var entries []BulkEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, &model.ConfigurationError{Path: path, Msg: "invalid bulk request file", Err: err}
	}
	return entries, nil
}

// RequestsFromEntries applies configuration defaults to bulk entries.
func RequestsFromEntries(cfg *model.Configuration, entries []BulkEntry) []model.WorkspaceRequest {
	if cfg == nil {
		cfg = &model.Configuration{}
	}
	out := make([]model.WorkspaceRequest, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.WorkspaceRequest{
			Title:        e.Title,
			Language:     ptr.Deref(e.Language, cfg.DefaultLanguage),
			IsPrivate:    ptr.Deref(e.IsPrivate, cfg.DefaultPrivacy),
			Template:     ptr.Deref(e.Template, ""),
			TeamID:       ptr.Deref(e.TeamID, cfg.TeamID),
			CreateRemote: e.CreateRemote,
		})
	}
	return out
}

// BulkInput carries an ordered list of requests.
type BulkInput struct {
	Requests            []model.WorkspaceRequest `json:"requests" yaml:"requests"`
	DefaultCreateRemote *bool                    `json:"default_create_remote,omitempty" yaml:"default_create_remote,omitempty"`
	// Concurrency above 1 provisions items in parallel. Outcomes keep the
	// input order either way.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// BulkOutput holds one outcome per request, in request order.
type BulkOutput struct {
	Outcomes  []*model.BulkJobOutcome `json:"outcomes" yaml:"outcomes"`
	Succeeded int                     `json:"succeeded" yaml:"succeeded"`
	Failed    int                     `json:"failed" yaml:"failed"`
}

// Bulk provisions every request independently. A failing item becomes an
// error outcome and never stops the batch.
func (u *UseCase) Bulk(ctx context.Context, in *BulkInput) (*BulkOutput, error) {
	if in == nil {
		return nil, model.ErrRequestInvalid
	}
	out := &BulkOutput{Outcomes: make([]*model.BulkJobOutcome, len(in.Requests))}

	if in.Concurrency <= 1 {
		for i := range in.Requests {
			out.Outcomes[i] = u.bulkItem(ctx, in.Requests[i], in.DefaultCreateRemote)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(in.Concurrency)
		for i := range in.Requests {
			g.Go(func() error {
				out.Outcomes[i] = u.bulkItem(ctx, in.Requests[i], in.DefaultCreateRemote)
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, o := range out.Outcomes {
		if o.Status == model.BulkStatusSuccess {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func (u *UseCase) bulkItem(ctx context.Context, req model.WorkspaceRequest, defaultRemote *bool) (outcome *model.BulkJobOutcome) {
	outcome = &model.BulkJobOutcome{Title: req.Title}
	defer func() {
		if r := recover(); r != nil {
			outcome.Status = model.BulkStatusError
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
		u.Metrics.BulkItem(string(outcome.Status))
	}()

	res, err := u.Create(ctx, &CreateInput{Request: req, DefaultCreateRemote: defaultRemote})
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "bulk item failed", "title", req.Title, "err", err)
		outcome.Status = model.BulkStatusError
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Status = model.BulkStatusSuccess
	outcome.Path = res.Path
	outcome.Record = res.Record
	outcome.Advisories = res.Advisories
	return outcome
}
