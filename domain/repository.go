package domain

import (
	"context"

	"github.com/kompox/replops/domain/model"
)

// RecordRepository stores LocalRecord documents keyed by slug.
// Writes must be atomic: either the new document lands or the old one remains.
type RecordRepository interface {
	// Save writes rec under slug and reports whether a record already existed.
	Save(ctx context.Context, slug string, rec *model.LocalRecord) (existed bool, err error)
	Get(ctx context.Context, slug string) (*model.LocalRecord, error)
	List(ctx context.Context) (map[string]*model.LocalRecord, error)
	// Path returns the location of the document for slug.
	Path(slug string) string
}

// HistoryRepository stores provisioning events.
type HistoryRepository interface {
	Append(ctx context.Context, ev *model.ProvisionEvent) error
	List(ctx context.Context) ([]*model.ProvisionEvent, error)
}

// CreateRemoteInput carries the arguments of a remote workspace creation.
type CreateRemoteInput struct {
	Title      string
	Language   string
	IsPrivate  bool
	TemplateID string
	TeamID     string
}

// RemotePort is the remote provider as seen by the use cases.
type RemotePort interface {
	Enabled() bool
	CreateWorkspace(ctx context.Context, in CreateRemoteInput) (*model.RemoteResult, error)
	ListTemplates(ctx context.Context) ([]*model.TemplateDescriptor, error)
	CurrentUser(ctx context.Context) (*model.RemoteUser, error)
}

// TemplatePort expands template documents and writes entry-point stubs.
type TemplatePort interface {
	// Expand writes entrypoint from the template at templatePath. A non-nil
	// error means a fallback stub was written instead.
	Expand(templatePath, entrypoint string) error
	CreateEntryPoint(entrypoint string) error
}
