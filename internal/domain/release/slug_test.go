package release

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSlugify checks the slug shape for typical and awkward names.
func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"My Extension":              "my-extension",
		"  Tab  Saver!! Pro  ":      "tab-saver-pro",
		"--already-slugged--":       "already-slugged",
		"Ünïcode & Friends 2":       "n-code-friends-2",
		"":                          "",
		"!!!":                       "",
		"Release_Builder.v2 (beta)": "release-builder-v2-beta",
	}

	for name, want := range cases {
		require.Equal(t, want, Slugify(name), name)
	}
}

// TestSlugify_Idempotent verifies that slugging a slug changes nothing and the shape invariants hold.
func TestSlugify_Idempotent(t *testing.T) {
	t.Parallel()

	shape := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

	for _, name := range []string{
		"My Extension",
		"a--b__c",
		"-x-",
		"UPPER lower 123",
		"日本語 name",
		"tab\tand\nnewline",
	} {
		once := Slugify(name)
		require.Equal(t, once, Slugify(once), name)
		require.Regexp(t, shape, once)
	}
}
