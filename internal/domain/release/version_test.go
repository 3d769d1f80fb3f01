package release

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// TestBumpVersion covers the reset cascade and component normalization.
func TestBumpVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		version string
		kind    BumpKind
		want    string
	}{
		{"1.2.3", BumpMajor, "2.0.0"},
		{"1.2.3", BumpMinor, "1.3.0"},
		{"1.2.3", BumpPatch, "1.2.4"},
		{"1.2", BumpPatch, "1.2.1"},
		{"1", BumpMinor, "1.1.0"},
		{"1.2.3.4", BumpPatch, "1.2.4"},
		{"0.0.0", BumpMajor, "1.0.0"},
		{"1.09.3", BumpPatch, "1.9.4"},
	}

	for _, tc := range cases {
		got, err := BumpVersion(tc.version, tc.kind)
		require.NoError(t, err, tc.version)
		require.Equal(t, tc.want, got, "%s %s", tc.version, tc.kind)
	}
}

// TestBumpVersion_Invalid ensures non-numeric components are rejected instead of coerced.
func TestBumpVersion_Invalid(t *testing.T) {
	t.Parallel()

	for _, version := range []string{"1.x.3", "", "1..2", "-1.0.0", "1.2.3-beta", "1.2.18446744073709551616"} {
		_, err := BumpVersion(version, BumpPatch)
		require.ErrorIs(t, err, ErrInvalidVersionFormat, version)
		require.NotEmpty(t, errors.GetAllHints(err))
	}
}

// TestBumpVersion_Overflow rejects an increment past the largest component value.
func TestBumpVersion_Overflow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		kind    BumpKind
	}{
		{version: "1.2.18446744073709551615", kind: BumpPatch},
		{version: "1.18446744073709551615.0", kind: BumpMinor},
		{version: "18446744073709551615", kind: BumpMajor},
	}

	for _, tt := range tests {
		got, err := BumpVersion(tt.version, tt.kind)
		require.ErrorIs(t, err, ErrInvalidVersionFormat, tt.version)
		require.NotEmpty(t, errors.GetAllHints(err))
		require.Empty(t, got)
	}

	// A maxed-out component is fine when the bump resets it.
	got, err := BumpVersion("1.2.18446744073709551615", BumpMinor)
	require.NoError(t, err)
	require.Equal(t, "1.3.0", got)
}

// TestBumpVersion_UnknownKind rejects kinds outside major, minor and patch.
func TestBumpVersion_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := BumpVersion("1.2.3", BumpKind("huge"))
	require.ErrorIs(t, err, ErrUnknownBumpKind)
}

// TestParseBumpKind verifies accepted spellings and the error for unknown kinds.
func TestParseBumpKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseBumpKind(" Minor ")
	require.NoError(t, err)
	require.Equal(t, BumpMinor, kind)

	_, err = ParseBumpKind("build")
	require.ErrorIs(t, err, ErrUnknownBumpKind)
	require.Equal(t, []string{"major", "minor", "patch"}, BumpKinds())
}
