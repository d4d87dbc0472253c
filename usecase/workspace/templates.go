package workspace

import (
	"context"
	"sort"

	"github.com/kompox/replops/domain/model"
)

type ListTemplatesInput struct {
	// Remote adds the remote provider's template listing.
	Remote bool `json:"remote" yaml:"remote"`
}

type ListTemplatesOutput struct {
	Templates  []*model.TemplateDescriptor `json:"templates" yaml:"templates"`
	Advisories []model.Advisory            `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// ListTemplates returns the configured templates sorted by name, followed by
// the remote listing when requested.
func (u *UseCase) ListTemplates(ctx context.Context, in *ListTemplatesInput) (*ListTemplatesOutput, error) {
	cfg := u.config()
	out := &ListTemplatesOutput{Templates: make([]*model.TemplateDescriptor, 0, len(cfg.Templates))}
	for name, t := range cfg.Templates {
		cp := *t
		cp.Name = name
		cp.Source = "local"
		out.Templates = append(out.Templates, &cp)
	}
	sort.Slice(out.Templates, func(i, j int) bool { return out.Templates[i].Name < out.Templates[j].Name })

	if in == nil || !in.Remote {
		return out, nil
	}
	if !u.remoteEnabled() {
		out.Advisories = append(out.Advisories, model.NewAdvisory(model.AdvisoryRemoteUnavailable, nil,
			"remote templates requested but no remote credential is configured"))
		return out, nil
	}
	remote, err := u.Remote.ListTemplates(ctx)
	if err != nil {
		out.Advisories = append(out.Advisories, model.NewAdvisory(model.AdvisoryRemoteFailed, err, "cannot list remote templates"))
		return out, nil
	}
	out.Templates = append(out.Templates, remote...)
	return out, nil
}
