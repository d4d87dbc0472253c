package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/kompox/replops/adapters/store/inmem"
	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
)

type mockRemote struct {
	enabled         bool
	createFunc      func(ctx context.Context, in domain.CreateRemoteInput) (*model.RemoteResult, error)
	listTemplates   func(ctx context.Context) ([]*model.TemplateDescriptor, error)
	currentUserFunc func(ctx context.Context) (*model.RemoteUser, error)

	mu    sync.Mutex
	calls []domain.CreateRemoteInput
}

func (m *mockRemote) Enabled() bool { return m.enabled }

func (m *mockRemote) CreateWorkspace(ctx context.Context, in domain.CreateRemoteInput) (*model.RemoteResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, in)
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return &model.RemoteResult{ID: "r-" + in.Title, Title: in.Title, URL: "https://replit.com/@me/" + in.Title, Language: in.Language, IsPrivate: in.IsPrivate}, nil
}

func (m *mockRemote) ListTemplates(ctx context.Context) ([]*model.TemplateDescriptor, error) {
	if m.listTemplates != nil {
		return m.listTemplates(ctx)
	}
	return nil, nil
}

func (m *mockRemote) CurrentUser(ctx context.Context) (*model.RemoteUser, error) {
	if m.currentUserFunc != nil {
		return m.currentUserFunc(ctx)
	}
	return &model.RemoteUser{Username: "me"}, nil
}

func (m *mockRemote) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockTemplates struct {
	expandFunc func(templatePath, entrypoint string) error

	mu       sync.Mutex
	expanded []string
	stubs    []string
}

func (m *mockTemplates) Expand(templatePath, entrypoint string) error {
	m.mu.Lock()
	m.expanded = append(m.expanded, templatePath)
	m.mu.Unlock()
	if m.expandFunc != nil {
		return m.expandFunc(templatePath, entrypoint)
	}
	return nil
}

func (m *mockTemplates) CreateEntryPoint(entrypoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, entrypoint)
	return nil
}

// failingRecords fails Save for records matching failOn.
type failingRecords struct {
	*inmem.RecordRepository
	failOn func(slug string, rec *model.LocalRecord) bool
}

var errDiskFull = errors.New("disk full")

func (r *failingRecords) Save(ctx context.Context, slug string, rec *model.LocalRecord) (bool, error) {
	if r.failOn != nil && r.failOn(slug, rec) {
		return false, errDiskFull
	}
	return r.RecordRepository.Save(ctx, slug, rec)
}

type failingHistory struct{}

func (failingHistory) Append(context.Context, *model.ProvisionEvent) error {
	return errors.New("history unavailable")
}
func (failingHistory) List(context.Context) ([]*model.ProvisionEvent, error) { return nil, nil }

func remoteErr(kind error) error {
	return &model.RemoteError{Kind: kind, Op: "CreateRepl"}
}

func hasAdvisory(advs []model.Advisory, code model.AdvisoryCode) bool {
	for _, a := range advs {
		if a.Code == code {
			return true
		}
	}
	return false
}

func newTestUseCase(remote domain.RemotePort) (*UseCase, *inmem.RecordRepository, *inmem.HistoryRepository, *mockTemplates) {
	records := inmem.NewRecordRepository(".repl-configs")
	history := inmem.NewHistoryRepository()
	tmpl := &mockTemplates{}
	uc := &UseCase{
		Repos:     &Repos{Records: records, History: history},
		Config:    &model.Configuration{DefaultLanguage: "python", Templates: map[string]*model.TemplateDescriptor{}},
		Remote:    remote,
		Templates: tmpl,
		Retry:     DefaultRetryPolicy(),
	}
	return uc, records, history, tmpl
}
