// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"regexp"
	"strings"
)

// slugRegex validates a canonical add-on folder name: lowercase, starts with
// a letter, hyphen- or underscore-separated alphanumeric segments.
var slugRegex = regexp.MustCompile(`^[a-z][a-z0-9]*([_-][a-z0-9]+)*$`)

// possessiveRegex matches English possessive suffixes so display names slug
// cleanly: "Nino's Tools" becomes "nino-tools", not "ninos-tools".
var possessiveRegex = regexp.MustCompile(`['’]s?\b`)

// Slug derives the canonical folder name from an add-on display name.
// Possessives are elided, everything is lowercased, and runs of
// non-alphanumeric characters collapse to a single hyphen.
func Slug(name string) string {
	s := possessiveRegex.ReplaceAllString(name, "")
	s = strings.ToLower(s)

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '_':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// ValidateSlug checks if a folder name is a valid canonical add-on name.
// Returns nil if valid, or an error describing the problem.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("add-on name cannot be empty")
	}

	if strings.HasPrefix(slug, ".") {
		return fmt.Errorf("add-on name cannot start with a dot (hidden folders not allowed)")
	}

	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("add-on name '%s' is invalid: must be lowercase, start with a letter, and contain only alphanumeric characters separated by hyphens or underscores (e.g., 'nino-tools', 'node_wrangler')", slug)
	}

	return nil
}
