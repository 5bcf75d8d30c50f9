// SPDX-License-Identifier: MPL-2.0

package addon

import "testing"

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "possessive name", input: "Nino's Tools", expected: "nino-tools"},
		{name: "curly apostrophe possessive", input: "Nino’s Tools", expected: "nino-tools"},
		{name: "simple name", input: "My Tools", expected: "my-tools"},
		{name: "already a slug", input: "my-tools", expected: "my-tools"},
		{name: "mixed punctuation", input: "Mesh: Extra Objects!", expected: "mesh-extra-objects"},
		{name: "leading and trailing spaces", input: "  Node Wrangler  ", expected: "node-wrangler"},
		{name: "multiple separators collapse", input: "UV -- Toolkit", expected: "uv-toolkit"},
		{name: "digits preserved", input: "Render 3000", expected: "render-3000"},
		{name: "bare possessive s", input: "Tools's", expected: "tools"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Slug(tt.input); got != tt.expected {
				t.Errorf("Slug(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()

	valid := []string{"nino-tools", "a", "my_tools", "tool2", "a-b-c"}
	for _, slug := range valid {
		if err := ValidateSlug(slug); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, expected nil", slug, err)
		}
	}

	invalid := []string{"", "2tools", "-tools", "tools-", "My Tools", "nino--tools", "nino.tools"}
	for _, slug := range invalid {
		if err := ValidateSlug(slug); err == nil {
			t.Errorf("ValidateSlug(%q) = nil, expected error", slug)
		}
	}
}
