package wizard

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"k8s.io/utils/ptr"

	"github.com/kompox/replops/domain/model"
)

func testConfig() *model.Configuration {
	return &model.Configuration{
		DefaultLanguage: "nodejs",
		DefaultPrivacy:  true,
		TeamID:          "team-1",
		Templates: map[string]*model.TemplateDescriptor{
			"web": {Path: "web.json"},
			"api": {Path: "api.json"},
		},
	}
}

func run(t *testing.T, cfg *model.Configuration, input string) (Result, string) {
	t.Helper()
	var out bytes.Buffer
	res := Run(context.Background(), Options{
		Config:    cfg,
		Languages: []string{"python", "nodejs", "go"},
		In:        strings.NewReader(input),
		Out:       &out,
	})
	return res, out.String()
}

func TestRun_Answers(t *testing.T) {
	// title, language 1 (python), privacy no, template 3 (web), remote yes
	res, _ := run(t, testConfig(), "My App\n1\nn\n3\nyes\n")
	if res.Cancelled {
		t.Fatal("Cancelled = true")
	}
	want := model.WorkspaceRequest{
		Title:        "My App",
		Language:     "python",
		IsPrivate:    false,
		Template:     "web",
		TeamID:       "team-1",
		CreateRemote: ptr.To(true),
	}
	assertRequest(t, res.Request, want)
}

func TestRun_Defaults(t *testing.T) {
	res, _ := run(t, testConfig(), "\n\n\n\n\n")
	if res.Cancelled {
		t.Fatal("Cancelled = true")
	}
	want := model.WorkspaceRequest{
		Title:        FallbackTitle,
		Language:     "nodejs",
		IsPrivate:    true,
		TeamID:       "team-1",
		CreateRemote: ptr.To(false),
	}
	assertRequest(t, res.Request, want)
}

func TestRun_RepromptsOnInvalidInput(t *testing.T) {
	res, out := run(t, testConfig(), "X\n0\nabc\n9\n3\nmaybe\nY\n-1\n1\nNO\n")
	if res.Cancelled {
		t.Fatal("Cancelled = true")
	}
	if res.Request.Language != "go" || !res.Request.IsPrivate || res.Request.Template != "" || *res.Request.CreateRemote {
		t.Errorf("request = %+v", res.Request)
	}
	if n := strings.Count(out, "Please enter a number"); n != 4 {
		t.Errorf("number re-prompts = %d, want 4\n%s", n, out)
	}
	if n := strings.Count(out, "Please answer y or n."); n != 1 {
		t.Errorf("boolean re-prompts = %d, want 1", n)
	}
}

func TestRun_SkipsTemplateWithoutRegistry(t *testing.T) {
	cfg := testConfig()
	cfg.Templates = map[string]*model.TemplateDescriptor{}
	res, out := run(t, cfg, "T\n2\nn\ny\n")
	if res.Cancelled {
		t.Fatal("Cancelled = true")
	}
	if strings.Contains(out, "Template") {
		t.Errorf("template prompt shown:\n%s", out)
	}
	if !*res.Request.CreateRemote || res.Request.Language != "nodejs" {
		t.Errorf("request = %+v", res.Request)
	}
}

func TestRun_EOFAtEveryState(t *testing.T) {
	inputs := []string{"", "T\n", "T\n1\n", "T\n1\ny\n", "T\n1\ny\n2\n"}
	for _, in := range inputs {
		t.Run(strings.ReplaceAll(in, "\n", "|"), func(t *testing.T) {
			res, out := run(t, testConfig(), in)
			if !res.Cancelled {
				t.Fatalf("Cancelled = false for %q", in)
			}
			assertRequest(t, res.Request, Fallback(testConfig()))
			if !strings.Contains(out, "Cancelled") {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestRun_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() {
		done <- Run(ctx, Options{Config: testConfig(), In: pr, Out: io.Discard})
	}()
	if _, err := pw.Write([]byte("Partial\n")); err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case res := <-done:
		if !res.Cancelled || res.Request.Title != FallbackTitle {
			t.Errorf("result = %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wizard did not observe cancellation")
	}
}

func TestFallback(t *testing.T) {
	got := Fallback(testConfig())
	want := model.WorkspaceRequest{Title: FallbackTitle, Language: "nodejs", IsPrivate: true, TeamID: "team-1"}
	assertRequest(t, got, want)
	if Fallback(nil).Title != FallbackTitle {
		t.Error("Fallback(nil) title")
	}
}

func assertRequest(t *testing.T, got, want model.WorkspaceRequest) {
	t.Helper()
	if got.Title != want.Title || got.Language != want.Language || got.IsPrivate != want.IsPrivate ||
		got.Template != want.Template || got.TeamID != want.TeamID {
		t.Errorf("request = %+v, want %+v", got, want)
	}
	if (got.CreateRemote == nil) != (want.CreateRemote == nil) ||
		(got.CreateRemote != nil && *got.CreateRemote != *want.CreateRemote) {
		t.Errorf("CreateRemote = %v, want %v", got.CreateRemote, want.CreateRemote)
	}
}
