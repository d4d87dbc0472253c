package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/logging"
	"github.com/kompox/replops/internal/naming"
)

// CreateInput carries one workspace request.
type CreateInput struct {
	Request model.WorkspaceRequest `json:"request" yaml:"request"`
	// DefaultCreateRemote applies when Request.CreateRemote is nil, before
	// falling back to the configuration default.
	DefaultCreateRemote *bool `json:"default_create_remote,omitempty" yaml:"default_create_remote,omitempty"`
}

// CreateOutput is the result of a provisioning call.
type CreateOutput struct {
	Record         *model.LocalRecord `json:"record" yaml:"record"`
	Slug           string             `json:"slug" yaml:"slug"`
	Path           string             `json:"path" yaml:"path"`
	EntryPoint     string             `json:"entrypoint,omitempty" yaml:"entrypoint,omitempty"`
	RemoteAttempts int                `json:"remote_attempts" yaml:"remote_attempts"`
	Advisories     []model.Advisory   `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// Remote reports whether the record is mirrored remotely.
func (o *CreateOutput) Remote() bool { return o != nil && o.Record.HasRemote() }

// Create provisions one workspace. The local record is written first and is
// the only fatal step; every later failure is returned as an advisory.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.ErrRequestInvalid
	}
	cfg := u.config()
	logger := logging.FromContext(ctx)
	req := in.Request

	if err := naming.ValidateTitle(req.Title); err != nil {
		return nil, &model.ConfigurationError{Field: "title", Msg: err.Error(), Err: model.ErrRequestInvalid}
	}
	if req.Language == "" {
		req.Language = cfg.DefaultLanguage
	}
	if req.TeamID == "" {
		req.TeamID = cfg.TeamID
	}

	out := &CreateOutput{Slug: naming.Slug(req.Title)}
	out.Path = u.Repos.Records.Path(out.Slug)
	advise := func(a model.Advisory) {
		out.Advisories = append(out.Advisories, a)
		u.Metrics.Advisory(string(a.Code))
		logger.Warn(ctx, "advisory", "code", a.Code, "message", a.Message, "slug", out.Slug)
	}

	// Effective remote decision, made once.
	wantRemote := cfg.CreateRemote
	if in.DefaultCreateRemote != nil {
		wantRemote = *in.DefaultCreateRemote
	}
	if req.CreateRemote != nil {
		wantRemote = *req.CreateRemote
	}
	doRemote := wantRemote && u.remoteEnabled()
	if wantRemote && !doRemote {
		advise(model.NewAdvisory(model.AdvisoryRemoteUnavailable, nil,
			"remote creation requested but no remote credential is configured; created locally only"))
	}

	if err := naming.ValidateLanguage(req.Language); err != nil {
		return nil, &model.ConfigurationError{Path: out.Path, Field: "language", Msg: err.Error(), Err: model.ErrRequestInvalid}
	}
	rec := newRecord(req)

	existed, err := u.Repos.Records.Save(ctx, out.Slug, rec)
	if err != nil {
		var ce *model.ConfigurationError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &model.ConfigurationError{Path: out.Path, Msg: "cannot write record", Err: err}
	}
	logger.Info(ctx, "workspace record written", "slug", out.Slug, "path", out.Path, "language", rec.Language)
	if existed {
		advise(model.NewAdvisory(model.AdvisoryRecordOverwritten, nil,
			"record %s already existed and was replaced", out.Path))
	}

	u.writeEntryPoint(req, rec, out, advise)

	if doRemote {
		res, attempts, err := u.createRemote(ctx, domain.CreateRemoteInput{
			Title:      req.Title,
			Language:   req.Language,
			IsPrivate:  req.IsPrivate,
			TemplateID: templateID(cfg, req.Template),
			TeamID:     req.TeamID,
		})
		out.RemoteAttempts = attempts
		if err != nil {
			advise(model.NewAdvisory(model.AdvisoryRemoteFailed, err,
				"remote creation failed after %d attempt(s); record kept local-only", attempts))
		} else {
			rec.Remote = res
			if _, err := u.Repos.Records.Save(ctx, out.Slug, rec); err != nil {
				advise(model.NewAdvisory(model.AdvisoryRecordUpdateFailed, err,
					"remote workspace %s created but the record could not be updated", res.ID))
			}
			logger.Info(ctx, "remote workspace created", "slug", out.Slug, "id", res.ID, "url", res.URL)
		}
	}

	out.Record = rec
	u.Metrics.WorkspaceCreated(rec.HasRemote())
	u.appendHistory(ctx, req, out, advise)
	return out, nil
}

func newRecord(req model.WorkspaceRequest) *model.LocalRecord {
	rec := &model.LocalRecord{
		Language: req.Language,
		Packager: model.Packager{
			Language:     req.Language,
			IgnoredPaths: append([]string(nil), model.DefaultIgnoredPaths...),
		},
		Template:  req.Template,
		TeamID:    req.TeamID,
		IsPrivate: req.IsPrivate,
	}
	if rt, ok := LookupRuntime(req.Language); ok {
		rec.Run = rt.Run
		rec.Entrypoint = rt.Entrypoint
	}
	return rec
}

func templateID(cfg *model.Configuration, name string) string {
	if t := cfg.Template(name); t != nil {
		return t.ID
	}
	return ""
}

func (u *UseCase) writeEntryPoint(req model.WorkspaceRequest, rec *model.LocalRecord, out *CreateOutput, advise func(model.Advisory)) {
	if rec.Entrypoint == "" {
		advise(model.NewAdvisory(model.AdvisoryEntrypointSkipped, nil,
			"no entry point defaults for language %q", rec.Language))
		return
	}
	if u.Templates == nil {
		return
	}
	entry := u.workPath(rec.Entrypoint)
	out.EntryPoint = entry

	if req.Template != "" {
		t := u.config().Template(req.Template)
		if t != nil && t.Path != "" {
			if err := u.Templates.Expand(u.templatePath(t.Path), entry); err != nil {
				advise(model.NewAdvisory(model.AdvisoryTemplateFallback, err,
					"template %q could not be expanded; wrote the default stub", req.Template))
			}
			return
		}
		advise(model.NewAdvisory(model.AdvisoryTemplateUnknown, nil,
			"template %q is not registered; wrote the default stub", req.Template))
	}
	if err := u.Templates.CreateEntryPoint(entry); err != nil {
		advise(model.NewAdvisory(model.AdvisoryEntrypointSkipped, err, "cannot write entry point %s", entry))
	}
}

// createRemote runs the remote call under the retry policy and returns the
// number of attempts made.
func (u *UseCase) createRemote(ctx context.Context, in domain.CreateRemoteInput) (*model.RemoteResult, int, error) {
	logger := logging.FromContext(ctx)
	policy := u.retryPolicy()
	for attempt := 1; ; attempt++ {
		start := time.Now()
		res, err := u.Remote.CreateWorkspace(ctx, in)
		if err == nil {
			u.Metrics.RemoteAttempt("success", time.Since(start))
			return res, attempt, nil
		}
		u.Metrics.RemoteAttempt(kindLabel(err), time.Since(start))
		if !policy.ShouldRetry(err, attempt) {
			return nil, attempt, err
		}
		delay := policy.Backoff(attempt)
		logger.Warn(ctx, "remote attempt failed, retrying", "attempt", attempt, "delay", delay, "err", err)
		if err := sleepContext(ctx, delay); err != nil {
			return nil, attempt, fmt.Errorf("retry aborted: %w", err)
		}
	}
}

func kindLabel(err error) string {
	switch model.RemoteKind(err) {
	case model.ErrRemoteDisabled:
		return "disabled"
	case model.ErrRemoteUnreachable:
		return "unreachable"
	case model.ErrRemoteTimeout:
		return "timeout"
	case model.ErrRemoteAuth:
		return "auth"
	case model.ErrRemotePermission:
		return "permission"
	case model.ErrRemoteRateLimited:
		return "rate_limited"
	case model.ErrRemoteProtocol:
		return "protocol"
	case model.ErrRemoteAPI:
		return "api"
	}
	return "other"
}

func (u *UseCase) appendHistory(ctx context.Context, req model.WorkspaceRequest, out *CreateOutput, advise func(model.Advisory)) {
	if u.Repos.History == nil {
		return
	}
	ev := &model.ProvisionEvent{
		Title:      req.Title,
		Slug:       out.Slug,
		Language:   req.Language,
		RecordPath: out.Path,
		Advisories: len(out.Advisories),
		CreatedAt:  time.Now().UTC(),
	}
	if out.Record.HasRemote() {
		ev.RemoteID = out.Record.Remote.ID
		ev.RemoteURL = out.Record.Remote.URL
	}
	if err := u.Repos.History.Append(ctx, ev); err != nil {
		advise(model.NewAdvisory(model.AdvisoryHistoryFailed, err, "cannot record provisioning history"))
	}
}
