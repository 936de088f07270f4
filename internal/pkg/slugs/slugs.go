// Package slugs normalizes the event identifiers clients send.
package slugs

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// aliases maps retired or misspelled slugs to their canonical event.
// Targets must be canonical themselves so Normalize stays idempotent.
var aliases = map[string]string{
	"web-dev-competition":  "web-development-competition",
	"webdev-competition":   "web-development-competition",
	"web-development-comp": "web-development-competition",
}

// Normalize trims and lower-cases s, then resolves known aliases.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

// Canonical returns the catalog slug for an event. An empty slug is
// derived from the title; an explicit one must already be well formed.
func Canonical(explicit, title string) (string, error) {
	if explicit == "" {
		derived := slug.Make(title)
		if derived == "" {
			return "", fmt.Errorf("cannot derive slug from title %q", title)
		}
		return Normalize(derived), nil
	}

	s := Normalize(explicit)
	if !slug.IsSlug(s) {
		return "", fmt.Errorf("invalid slug %q", explicit)
	}
	return s, nil
}
