// Package naming derives record identities from workspace titles.
// Keeping the derivation here means the record store, the history store and
// the CLI always agree on where a workspace lives.
package naming

import (
	"strings"
)

// Slug returns the deterministic record name for a title: lower-cased with
// spaces replaced by underscores. Titles differing only in case share a slug.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}

// RecordFilename returns the document filename for a title.
func RecordFilename(title string) string {
	return Slug(title) + ".json"
}

// SlugFromArg accepts either a title or an existing slug (optionally with a
// .json suffix) and returns the slug.
func SlugFromArg(arg string) string {
	return Slug(strings.TrimSuffix(strings.TrimSpace(arg), ".json"))
}
