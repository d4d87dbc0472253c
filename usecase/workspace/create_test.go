package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"k8s.io/utils/ptr"

	"github.com/kompox/replops/adapters/store/localfs"
	"github.com/kompox/replops/adapters/template"
	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
)

func TestCreate_MyReplScenario(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ".repl-configs")
	uc := &UseCase{
		Repos:     &Repos{Records: localfs.NewRecordRepository(configDir)},
		Config:    &model.Configuration{DefaultLanguage: "python", Templates: map[string]*model.TemplateDescriptor{}},
		Remote:    &mockRemote{enabled: false},
		Templates: template.New(),
		WorkDir:   root,
	}

	out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{Title: "My Repl", Language: "python"}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	wantPath := filepath.Join(configDir, "my_repl.json")
	if out.Path != wantPath {
		t.Errorf("Path = %q, want %q", out.Path, wantPath)
	}
	if len(out.Advisories) != 0 {
		t.Errorf("unexpected advisories: %v", out.Advisories)
	}

	raw, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("record not written: %v", err)
	}
	var got model.LocalRecord
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	want := model.LocalRecord{
		Run:        "python main.py",
		Language:   "python",
		Entrypoint: "main.py",
		Packager:   model.Packager{Language: "python", IgnoredPaths: []string{".git"}},
		IsPrivate:  false,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("record = %+v, want %+v", got, want)
	}

	stub, err := os.ReadFile(filepath.Join(root, "main.py"))
	if err != nil {
		t.Fatalf("main.py not created: %v", err)
	}
	if string(stub) != "print(\"Hello from your new Repl!\")\n" {
		t.Errorf("main.py = %q", stub)
	}
}

func TestCreate_RemoteDisabledDowngrades(t *testing.T) {
	remote := &mockRemote{enabled: false}
	uc, _, history, _ := newTestUseCase(remote)

	out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{
		Title: "Svc", Language: "nodejs", CreateRemote: ptr.To(true),
	}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if out.Record.HasRemote() {
		t.Error("record should be local-only")
	}
	if !hasAdvisory(out.Advisories, model.AdvisoryRemoteUnavailable) {
		t.Errorf("advisories = %v, want remote_unavailable", out.Advisories)
	}
	if remote.callCount() != 0 {
		t.Errorf("remote called %d times", remote.callCount())
	}
	if out.Record.Run != "node index.js" || out.Record.Entrypoint != "index.js" {
		t.Errorf("record = %+v", out.Record)
	}
	events, _ := history.List(context.Background())
	if len(events) != 1 || events[0].Advisories != 1 {
		t.Errorf("history = %+v", events)
	}
}

func TestCreate_RetryUnreachableThenSuccess(t *testing.T) {
	calls := 0
	remote := &mockRemote{enabled: true}
	remote.createFunc = func(_ context.Context, in domain.CreateRemoteInput) (*model.RemoteResult, error) {
		calls++
		if calls <= 2 {
			return nil, remoteErr(model.ErrRemoteUnreachable)
		}
		return &model.RemoteResult{ID: "abc", Title: in.Title, URL: "https://replit.com/@me/svc", Language: in.Language}, nil
	}
	uc, records, history, _ := newTestUseCase(remote)

	out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{
		Title: "Svc", Language: "python", CreateRemote: ptr.To(true),
	}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if out.RemoteAttempts != 3 || remote.callCount() != 3 {
		t.Errorf("attempts = %d, calls = %d, want 3", out.RemoteAttempts, remote.callCount())
	}
	if !out.Record.HasRemote() || out.Record.Remote.ID != "abc" {
		t.Fatalf("record remote = %+v", out.Record.Remote)
	}

	stored, err := records.Get(context.Background(), "svc")
	if err != nil {
		t.Fatal(err)
	}
	if !stored.HasRemote() || stored.Run != "python main.py" || stored.Packager.Language != "python" {
		t.Errorf("re-persisted record lost fields: %+v", stored)
	}
	events, _ := history.List(context.Background())
	if len(events) != 1 || events[0].RemoteID != "abc" {
		t.Errorf("history = %+v", events)
	}
}

func TestCreate_RetryPolicyByErrorClass(t *testing.T) {
	cases := []struct {
		name      string
		kind      error
		wantCalls int
	}{
		{name: "auth", kind: model.ErrRemoteAuth, wantCalls: 1},
		{name: "permission", kind: model.ErrRemotePermission, wantCalls: 1},
		{name: "rate limited", kind: model.ErrRemoteRateLimited, wantCalls: 1},
		{name: "protocol", kind: model.ErrRemoteProtocol, wantCalls: 1},
		{name: "api", kind: model.ErrRemoteAPI, wantCalls: 1},
		{name: "unreachable", kind: model.ErrRemoteUnreachable, wantCalls: 3},
		{name: "timeout", kind: model.ErrRemoteTimeout, wantCalls: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remote := &mockRemote{enabled: true}
			remote.createFunc = func(context.Context, domain.CreateRemoteInput) (*model.RemoteResult, error) {
				return nil, remoteErr(tc.kind)
			}
			uc, records, _, _ := newTestUseCase(remote)

			out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{
				Title: "Svc", Language: "python", CreateRemote: ptr.To(true),
			}})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if remote.callCount() != tc.wantCalls {
				t.Errorf("calls = %d, want %d", remote.callCount(), tc.wantCalls)
			}
			if out.Record.HasRemote() {
				t.Error("record should stay local-only")
			}
			if !hasAdvisory(out.Advisories, model.AdvisoryRemoteFailed) {
				t.Errorf("advisories = %v", out.Advisories)
			}
			for _, a := range out.Advisories {
				if a.Code == model.AdvisoryRemoteFailed && !errors.Is(a.Err, tc.kind) {
					t.Errorf("advisory cause = %v, want %v", a.Err, tc.kind)
				}
			}
			stored, _ := records.Get(context.Background(), "svc")
			if stored == nil || stored.HasRemote() {
				t.Errorf("stored = %+v", stored)
			}
		})
	}
}

func TestCreate_EffectiveRemoteFlag(t *testing.T) {
	cases := []struct {
		name          string
		config        bool
		defaultRemote *bool
		request       *bool
		wantCalls     int
	}{
		{name: "config default off", config: false, wantCalls: 0},
		{name: "config default on", config: true, wantCalls: 1},
		{name: "input default overrides config", config: true, defaultRemote: ptr.To(false), wantCalls: 0},
		{name: "request overrides input default", config: false, defaultRemote: ptr.To(false), request: ptr.To(true), wantCalls: 1},
		{name: "request off wins", config: true, defaultRemote: ptr.To(true), request: ptr.To(false), wantCalls: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remote := &mockRemote{enabled: true}
			uc, _, _, _ := newTestUseCase(remote)
			uc.Config.CreateRemote = tc.config
			_, err := uc.Create(context.Background(), &CreateInput{
				Request:             model.WorkspaceRequest{Title: "X", Language: "python", CreateRemote: tc.request},
				DefaultCreateRemote: tc.defaultRemote,
			})
			if err != nil {
				t.Fatal(err)
			}
			if remote.callCount() != tc.wantCalls {
				t.Errorf("calls = %d, want %d", remote.callCount(), tc.wantCalls)
			}
		})
	}
}

func TestCreate_SlugCollisionOverwrites(t *testing.T) {
	root := t.TempDir()
	repo := localfs.NewRecordRepository(root)
	uc, _, _, _ := newTestUseCase(&mockRemote{})
	uc.Repos.Records = repo
	ctx := context.Background()

	first, err := uc.Create(ctx, &CreateInput{Request: model.WorkspaceRequest{Title: "Demo", Language: "python", Template: "", IsPrivate: true}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Create(ctx, &CreateInput{Request: model.WorkspaceRequest{Title: "demo", Language: "nodejs"}})
	if err != nil {
		t.Fatal(err)
	}
	if first.Path != second.Path || filepath.Base(second.Path) != "demo.json" {
		t.Fatalf("paths = %q, %q", first.Path, second.Path)
	}
	if hasAdvisory(first.Advisories, model.AdvisoryRecordOverwritten) {
		t.Error("first create reported an overwrite")
	}
	if !hasAdvisory(second.Advisories, model.AdvisoryRecordOverwritten) {
		t.Errorf("second advisories = %v, want record_overwritten", second.Advisories)
	}

	got, err := repo.Get(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	want := model.LocalRecord{
		Run:        "node index.js",
		Language:   "nodejs",
		Entrypoint: "index.js",
		Packager:   model.Packager{Language: "nodejs", IgnoredPaths: []string{".git"}},
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("record = %+v, want %+v (no merge)", *got, want)
	}
}

func TestCreate_RecordWriteFailureIsFatal(t *testing.T) {
	remote := &mockRemote{enabled: true}
	uc, records, history, tmpl := newTestUseCase(remote)
	uc.Repos.Records = &failingRecords{RecordRepository: records, failOn: func(string, *model.LocalRecord) bool { return true }}

	_, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{
		Title: "Svc", Language: "python", CreateRemote: ptr.To(true),
	}})
	var ce *model.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Create() error = %v, want *ConfigurationError", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("error does not wrap cause: %v", err)
	}
	if ce.Path != records.Path("svc") {
		t.Errorf("Path = %q", ce.Path)
	}
	if remote.callCount() != 0 {
		t.Error("remote attempted after local write failure")
	}
	if len(tmpl.stubs) != 0 {
		t.Error("entry point written after local write failure")
	}
	if events, _ := history.List(context.Background()); len(events) != 0 {
		t.Error("history recorded a failed call")
	}
}

func TestCreate_RecordUpdateFailureIsAdvisory(t *testing.T) {
	remote := &mockRemote{enabled: true}
	uc, records, _, _ := newTestUseCase(remote)
	uc.Repos.Records = &failingRecords{RecordRepository: records, failOn: func(_ string, rec *model.LocalRecord) bool {
		return rec.HasRemote()
	}}

	out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{
		Title: "Svc", Language: "python", CreateRemote: ptr.To(true),
	}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !out.Record.HasRemote() {
		t.Error("returned record should carry the remote result")
	}
	if !hasAdvisory(out.Advisories, model.AdvisoryRecordUpdateFailed) {
		t.Errorf("advisories = %v", out.Advisories)
	}
	stored, _ := records.Get(context.Background(), "svc")
	if stored == nil || stored.HasRemote() {
		t.Errorf("stored = %+v, want the local-only record", stored)
	}
}

func TestCreate_InvalidRequest(t *testing.T) {
	cases := []struct {
		name  string
		req   model.WorkspaceRequest
		field string
	}{
		{name: "empty title", req: model.WorkspaceRequest{Title: "", Language: "python"}, field: "title"},
		{name: "path title", req: model.WorkspaceRequest{Title: "../x", Language: "python"}, field: "title"},
		{name: "bad language", req: model.WorkspaceRequest{Title: "ok", Language: "py/thon"}, field: "language"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, records, _, _ := newTestUseCase(&mockRemote{})
			_, err := uc.Create(context.Background(), &CreateInput{Request: tc.req})
			var ce *model.ConfigurationError
			if !errors.As(err, &ce) || ce.Field != tc.field {
				t.Fatalf("Create() error = %v, want ConfigurationError on %s", err, tc.field)
			}
			if !errors.Is(err, model.ErrRequestInvalid) {
				t.Errorf("error does not wrap ErrRequestInvalid: %v", err)
			}
			if all, _ := records.List(context.Background()); len(all) != 0 {
				t.Errorf("records written: %v", all)
			}
		})
	}
	uc, _, _, _ := newTestUseCase(&mockRemote{})
	if _, err := uc.Create(context.Background(), nil); !errors.Is(err, model.ErrRequestInvalid) {
		t.Errorf("Create(nil) error = %v", err)
	}
}

func TestCreate_UnknownLanguageSkipsEntryPoint(t *testing.T) {
	uc, _, _, tmpl := newTestUseCase(&mockRemote{})
	out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{Title: "Rusty", Language: "rust"}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if out.Record.Run != "" || out.Record.Entrypoint != "" || out.Record.Language != "rust" {
		t.Errorf("record = %+v", out.Record)
	}
	if !hasAdvisory(out.Advisories, model.AdvisoryEntrypointSkipped) {
		t.Errorf("advisories = %v", out.Advisories)
	}
	if len(tmpl.stubs) != 0 {
		t.Errorf("stubs = %v", tmpl.stubs)
	}
}

func TestCreate_Templates(t *testing.T) {
	uc, _, _, tmpl := newTestUseCase(&mockRemote{})
	uc.TemplateDir = "/etc/replops"
	uc.WorkDir = "/work"
	uc.Config.Templates["web"] = &model.TemplateDescriptor{Name: "web", Path: "templates/web.json"}
	uc.Config.Templates["bad"] = &model.TemplateDescriptor{Name: "bad", Path: "/abs/bad.json"}
	tmpl.expandFunc = func(p, _ string) error {
		if p == "/abs/bad.json" {
			return &template.FallbackError{Template: p, Err: errors.New("parse error")}
		}
		return nil
	}
	ctx := context.Background()

	out, err := uc.Create(ctx, &CreateInput{Request: model.WorkspaceRequest{Title: "A", Language: "python", Template: "web"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Advisories) != 0 || out.Record.Template != "web" {
		t.Errorf("out = %+v", out)
	}
	if out.EntryPoint != "/work/main.py" {
		t.Errorf("EntryPoint = %q", out.EntryPoint)
	}

	out, err = uc.Create(ctx, &CreateInput{Request: model.WorkspaceRequest{Title: "B", Language: "python", Template: "bad"}})
	if err != nil {
		t.Fatal(err)
	}
	if !hasAdvisory(out.Advisories, model.AdvisoryTemplateFallback) {
		t.Errorf("advisories = %v", out.Advisories)
	}

	out, err = uc.Create(ctx, &CreateInput{Request: model.WorkspaceRequest{Title: "C", Language: "python", Template: "missing"}})
	if err != nil {
		t.Fatal(err)
	}
	if !hasAdvisory(out.Advisories, model.AdvisoryTemplateUnknown) {
		t.Errorf("advisories = %v", out.Advisories)
	}

	wantExpanded := []string{"/etc/replops/templates/web.json", "/abs/bad.json"}
	if !reflect.DeepEqual(tmpl.expanded, wantExpanded) {
		t.Errorf("expanded = %v, want %v", tmpl.expanded, wantExpanded)
	}
	if !reflect.DeepEqual(tmpl.stubs, []string{"/work/main.py"}) {
		t.Errorf("stubs = %v", tmpl.stubs)
	}
}

func TestCreate_DefaultsAndHistoryFailure(t *testing.T) {
	remote := &mockRemote{enabled: true}
	uc, _, _, _ := newTestUseCase(remote)
	uc.Config.TeamID = "team-1"
	uc.Config.DefaultLanguage = "nodejs"
	uc.Repos.History = failingHistory{}

	out, err := uc.Create(context.Background(), &CreateInput{Request: model.WorkspaceRequest{Title: "T", CreateRemote: ptr.To(true)}})
	if err != nil {
		t.Fatal(err)
	}
	if out.Record.Language != "nodejs" || out.Record.TeamID != "team-1" {
		t.Errorf("record = %+v", out.Record)
	}
	if remote.calls[0].TeamID != "team-1" {
		t.Errorf("remote input = %+v", remote.calls[0])
	}
	if !hasAdvisory(out.Advisories, model.AdvisoryHistoryFailed) {
		t.Errorf("advisories = %v", out.Advisories)
	}
}
