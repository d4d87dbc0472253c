package naming

import (
	"fmt"
	"strings"
)

const titleMaxLength = 128

// ValidateTitle checks that a title is non-empty and yields a slug that is a
// plain file name inside the record directory.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if len(title) > titleMaxLength {
		return fmt.Errorf("title exceeds %d characters", titleMaxLength)
	}
	slug := Slug(title)
	if slug == "." || slug == ".." {
		return fmt.Errorf("invalid title %q", title)
	}
	if strings.ContainsAny(slug, `/\`) || strings.ContainsRune(slug, 0) {
		return fmt.Errorf("invalid title %q: must not contain path separators", title)
	}
	return nil
}

// ValidateLanguage checks a runtime language identifier. Unknown languages are
// allowed; only identifiers that cannot be used as a packager name are rejected.
func ValidateLanguage(lang string) error {
	if lang == "" {
		return fmt.Errorf("language must not be empty")
	}
	for _, r := range lang {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '+':
		default:
			return fmt.Errorf("invalid language %q: unexpected character %q", lang, r)
		}
	}
	return nil
}
