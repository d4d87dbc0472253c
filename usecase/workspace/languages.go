package workspace

import (
	"sort"
	"strings"
)

// Runtime holds the language-specific defaults of a new record.
type Runtime struct {
	Run        string
	Entrypoint string
}

var runtimes = map[string]Runtime{
	"python":     {Run: "python main.py", Entrypoint: "main.py"},
	"nodejs":     {Run: "node index.js", Entrypoint: "index.js"},
	"go":         {Run: "go run main.go", Entrypoint: "main.go"},
	"ruby":       {Run: "ruby main.rb", Entrypoint: "main.rb"},
	"bash":       {Run: "bash main.sh", Entrypoint: "main.sh"},
	"typescript": {Run: "deno run index.ts", Entrypoint: "index.ts"},
}

// LookupRuntime returns the defaults for lang. Matching is case-insensitive.
func LookupRuntime(lang string) (Runtime, bool) {
	rt, ok := runtimes[strings.ToLower(lang)]
	return rt, ok
}

// Languages returns the languages with known defaults, python and nodejs
// first, the rest sorted.
func Languages() []string {
	out := []string{"python", "nodejs"}
	var rest []string
	for name := range runtimes {
		if name != "python" && name != "nodejs" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
