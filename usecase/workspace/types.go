package workspace

import (
	"path/filepath"

	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/metrics"
)

// Repos holds repositories needed for workspace use cases.
type Repos struct {
	Records domain.RecordRepository
	History domain.HistoryRepository // optional
}

// UseCase wires the stores and ports needed for provisioning.
type UseCase struct {
	Repos     *Repos
	Config    *model.Configuration
	Remote    domain.RemotePort
	Templates domain.TemplatePort
	// WorkDir is where entry-point files are written.
	WorkDir string
	// TemplateDir is the base for relative template paths, normally the
	// directory of the configuration document.
	TemplateDir string
	Retry       *RetryPolicy     // nil means DefaultRetryPolicy
	Metrics     *metrics.Metrics // optional
}

func (u *UseCase) config() *model.Configuration {
	if u.Config == nil {
		return &model.Configuration{}
	}
	return u.Config
}

func (u *UseCase) retryPolicy() *RetryPolicy {
	if u.Retry == nil {
		return DefaultRetryPolicy()
	}
	return u.Retry
}

func (u *UseCase) remoteEnabled() bool {
	return u.Remote != nil && u.Remote.Enabled()
}

func (u *UseCase) templatePath(p string) string {
	if p == "" || filepath.IsAbs(p) || u.TemplateDir == "" {
		return p
	}
	return filepath.Join(u.TemplateDir, p)
}

func (u *UseCase) workPath(name string) string {
	if u.WorkDir == "" {
		return name
	}
	return filepath.Join(u.WorkDir, name)
}
