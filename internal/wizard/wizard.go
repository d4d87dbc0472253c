// Package wizard implements the interactive prompt sequence that produces a
// single workspace request.
//
// The wizard is a state machine: Title, Language, Privacy, Template (only
// when templates are registered), Remote, Done. Every state reads one answer
// or observes cancellation. End of input or context cancellation at any
// prompt ends the run with the fallback request built from configuration
// defaults.
package wizard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/kompox/replops/domain/model"
)

// FallbackTitle is the title of the request returned on cancellation.
const FallbackTitle = "Untitled Workspace"

// Options configures a wizard run.
type Options struct {
	Config *model.Configuration
	// Languages offered by the language prompt. The configured default is
	// added when missing.
	Languages []string
	// RemoteAvailable is shown next to the remote prompt.
	RemoteAvailable bool
	In              io.Reader
	Out             io.Writer
}

// Result is the outcome of a run.
type Result struct {
	Request   model.WorkspaceRequest
	Cancelled bool
}

type state int

const (
	stateTitle state = iota
	stateLanguage
	statePrivacy
	stateTemplate
	stateRemote
	stateDone
)

var errCancelled = errors.New("wizard cancelled")

type wizard struct {
	opts      Options
	cfg       *model.Configuration
	languages []string
	templates []string
	lines     <-chan string
	req       model.WorkspaceRequest
}

// Fallback returns the request used when the wizard is cancelled.
func Fallback(cfg *model.Configuration) model.WorkspaceRequest {
	if cfg == nil {
		cfg = &model.Configuration{}
	}
	return model.WorkspaceRequest{
		Title:     FallbackTitle,
		Language:  cfg.DefaultLanguage,
		IsPrivate: cfg.DefaultPrivacy,
		TeamID:    cfg.TeamID,
	}
}

// Run prompts until Done or cancellation. It never fails: cancellation is
// reported through Result.Cancelled.
func Run(ctx context.Context, opts Options) Result {
	w := newWizard(ctx, opts)
	s := stateTitle
	for s != stateDone {
		next, err := w.step(ctx, s)
		if err != nil {
			fmt.Fprintln(w.opts.Out, "\nCancelled, using defaults.")
			return Result{Request: Fallback(w.cfg), Cancelled: true}
		}
		s = next
	}
	return Result{Request: w.req}
}

func newWizard(ctx context.Context, opts Options) *wizard {
	cfg := opts.Config
	if cfg == nil {
		cfg = &model.Configuration{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	w := &wizard{opts: opts, cfg: cfg, lines: readLines(ctx, opts.In)}
	w.languages = append(w.languages, opts.Languages...)
	if cfg.DefaultLanguage != "" && indexOf(w.languages, cfg.DefaultLanguage) < 0 {
		w.languages = append(w.languages, cfg.DefaultLanguage)
	}
	for name := range cfg.Templates {
		w.templates = append(w.templates, name)
	}
	sort.Strings(w.templates)
	w.req = model.WorkspaceRequest{TeamID: cfg.TeamID}
	return w
}

func (w *wizard) step(ctx context.Context, s state) (state, error) {
	switch s {
	case stateTitle:
		title, err := w.ask(ctx, fmt.Sprintf("Workspace title [%s]: ", FallbackTitle))
		if err != nil {
			return s, err
		}
		if title == "" {
			title = FallbackTitle
		}
		w.req.Title = title
		return stateLanguage, nil

	case stateLanguage:
		def := indexOf(w.languages, w.cfg.DefaultLanguage)
		i, err := w.choose(ctx, "Language", w.languages, def)
		if err != nil {
			return s, err
		}
		if i >= 0 {
			w.req.Language = w.languages[i]
		}
		return statePrivacy, nil

	case statePrivacy:
		v, err := w.confirm(ctx, "Make the workspace private?", w.cfg.DefaultPrivacy)
		if err != nil {
			return s, err
		}
		w.req.IsPrivate = v
		if len(w.templates) == 0 {
			return stateRemote, nil
		}
		return stateTemplate, nil

	case stateTemplate:
		choices := append([]string{"(none)"}, w.templates...)
		i, err := w.choose(ctx, "Template", choices, 0)
		if err != nil {
			return s, err
		}
		if i > 0 {
			w.req.Template = choices[i]
		}
		return stateRemote, nil

	case stateRemote:
		prompt := "Create the workspace remotely too?"
		if !w.opts.RemoteAvailable {
			prompt = "Create the workspace remotely too? (no credential configured)"
		}
		v, err := w.confirm(ctx, prompt, w.cfg.CreateRemote)
		if err != nil {
			return s, err
		}
		w.req.CreateRemote = ptr.To(v)
		return stateDone, nil
	}
	return stateDone, nil
}

// ask prints prompt and returns the trimmed answer.
func (w *wizard) ask(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", errCancelled
	}
	fmt.Fprint(w.opts.Out, prompt)
	select {
	case <-ctx.Done():
		return "", errCancelled
	case line, ok := <-w.lines:
		if !ok {
			return "", errCancelled
		}
		return strings.TrimSpace(line), nil
	}
}

// choose shows a numbered list and returns the selected index. An empty
// answer selects def. Invalid answers re-prompt.
func (w *wizard) choose(ctx context.Context, label string, choices []string, def int) (int, error) {
	if len(choices) == 0 {
		return -1, nil
	}
	if def < 0 {
		def = 0
	}
	fmt.Fprintf(w.opts.Out, "%s:\n", label)
	for i, c := range choices {
		fmt.Fprintf(w.opts.Out, "  %d) %s\n", i+1, c)
	}
	for {
		ans, err := w.ask(ctx, fmt.Sprintf("Select %s [%d]: ", strings.ToLower(label), def+1))
		if err != nil {
			return -1, err
		}
		if ans == "" {
			return def, nil
		}
		n, err := strconv.Atoi(ans)
		if err == nil && n >= 1 && n <= len(choices) {
			return n - 1, nil
		}
		fmt.Fprintf(w.opts.Out, "Please enter a number between 1 and %d.\n", len(choices))
	}
}

// confirm asks a yes/no question. An empty answer selects def.
func (w *wizard) confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		ans, err := w.ask(ctx, fmt.Sprintf("%s [%s]: ", prompt, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(ans) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(w.opts.Out, "Please answer y or n.")
	}
}

// readLines delivers input lines until EOF, a read error or cancellation,
// then closes the channel.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	if r == nil {
		close(ch)
		return ch
	}
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
