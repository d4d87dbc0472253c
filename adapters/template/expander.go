// Package template turns template documents into entry-point source files.
//
// Expansion is best-effort scaffolding over a closed set of recognized
// command phrases. Any failure to read or parse the template results in the
// minimal hello stub being written instead; the failure is returned as a
// *FallbackError so callers can report it without aborting provisioning.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/internal/fsutil"
)

// Directive is one entry of a template document.
type Directive struct {
	Context string `json:"context"`
	Command string `json:"command"`
}

// FallbackError reports that a template could not be expanded and the stub
// was written instead.
type FallbackError struct {
	Template string
	Err      error
	StubErr  error // non-nil when the stub could not be written either
}

func (e *FallbackError) Error() string {
	msg := fmt.Sprintf("template %s not expanded: %v", e.Template, e.Err)
	if e.StubErr != nil {
		msg += fmt.Sprintf(" (stub failed: %v)", e.StubErr)
	}
	return msg
}

func (e *FallbackError) Unwrap() error { return e.Err }

// Expander implements domain.TemplatePort on the local filesystem.
type Expander struct{}

// New returns an Expander.
func New() *Expander { return &Expander{} }

// Load reads and parses a template document (JSON, or YAML).
func Load(path string) ([]Directive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds []Directive
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ds, nil
}

// Render returns the source generated for entrypoint from the directives,
// and the names of the phrases that matched.
func Render(ds []Directive, entrypoint string) (string, []string, error) {
	g := generatorFor(entrypoint)
	if g == nil {
		return "", nil, fmt.Errorf("no generator for entrypoint %q", filepath.Base(entrypoint))
	}
	var blocks, matched []string
	for _, d := range ds {
		if !g.matchContext(d.Context) {
			continue
		}
		p, ok := g.match(d.Command)
		if !ok {
			continue
		}
		blocks = append(blocks, p.block)
		matched = append(matched, p.name)
	}
	if len(blocks) == 0 {
		return "", nil, fmt.Errorf("no %s directive matched", g.runtime)
	}
	return strings.Join(blocks, "\n"), matched, nil
}

// Expand writes entrypoint from the template document at templatePath.
func (x *Expander) Expand(templatePath, entrypoint string) error {
	ds, err := Load(templatePath)
	if err == nil {
		var src string
		src, _, err = Render(ds, entrypoint)
		if err == nil {
			if err = fsutil.WriteFileAtomic(entrypoint, []byte(src), 0644); err == nil {
				return nil
			}
		}
	}
	return &FallbackError{Template: templatePath, Err: err, StubErr: x.CreateEntryPoint(entrypoint)}
}

// CreateEntryPoint writes a one-line hello stub matching the entrypoint's
// extension. An existing file is left untouched.
func (x *Expander) CreateEntryPoint(entrypoint string) error {
	if entrypoint == "" {
		return fmt.Errorf("no entrypoint")
	}
	exists, err := fsutil.Exists(entrypoint)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return fsutil.WriteFileAtomic(entrypoint, []byte(Stub(entrypoint)), 0644)
}

// Stub returns the hello stub for entrypoint, empty for unknown extensions.
func Stub(entrypoint string) string {
	const greeting = "Hello from your new Repl!"
	switch filepath.Ext(entrypoint) {
	case ".py":
		return fmt.Sprintf("print(%q)\n", greeting)
	case ".js", ".ts":
		return fmt.Sprintf("console.log(%q);\n", greeting)
	case ".rb":
		return fmt.Sprintf("puts %q\n", greeting)
	case ".sh":
		return fmt.Sprintf("echo %q\n", greeting)
	case ".go":
		return fmt.Sprintf("package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(%q) }\n", greeting)
	}
	return ""
}

var _ domain.TemplatePort = (*Expander)(nil)
