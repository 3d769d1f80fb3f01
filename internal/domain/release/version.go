package release

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// BumpKind selects which version component is incremented.
type BumpKind string

const (
	// BumpMajor increments major and resets minor and patch.
	BumpMajor BumpKind = "major"
	// BumpMinor increments minor and resets patch.
	BumpMinor BumpKind = "minor"
	// BumpPatch increments patch only.
	BumpPatch BumpKind = "patch"

	// versionComponents is the number of components a bumped version always has.
	versionComponents = 3
)

// bumpIndex maps a kind to the component it increments.
var bumpIndex = map[BumpKind]int{
	BumpMajor: 0,
	BumpMinor: 1,
	BumpPatch: 2,
}

// BumpKinds lists the accepted kinds in CLI order.
func BumpKinds() []string {
	return []string{string(BumpMajor), string(BumpMinor), string(BumpPatch)}
}

// ParseBumpKind converts user input to a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	kind := BumpKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case BumpMajor, BumpMinor, BumpPatch:
		return kind, nil
	default:
		return "", errors.WithHintf(
			errors.Wrapf(ErrUnknownBumpKind, "bump kind %q", s),
			"Use one of: %s.", strings.Join(BumpKinds(), ", "),
		)
	}
}

// BumpVersion applies kind to version and returns the new version string.
//
// Missing components are padded with zero before the increment, and the result
// always has exactly three components: "1.2" patch-bumps to "1.2.1" and
// "1.2.3.4" minor-bumps to "1.3.0".
func BumpVersion(version string, kind BumpKind) (string, error) {
	parts := strings.Split(version, ".")
	for len(parts) < versionComponents {
		parts = append(parts, "0")
	}

	var numbers [versionComponents]uint64

	for i := range numbers {
		n, err := strconv.ParseUint(parts[i], 10, 64)
		if err != nil {
			return "", errors.WithHint(
				errors.Wrapf(ErrInvalidVersionFormat, "version %q component %d: %v", version, i+1, err),
				"Fix the version in the manifest so it reads major.minor.patch.",
			)
		}

		numbers[i] = n
	}

	if target, ok := bumpIndex[kind]; ok && numbers[target] == math.MaxUint64 {
		return "", errors.WithHint(
			errors.Wrapf(ErrInvalidVersionFormat, "version %q: %s component cannot be incremented", version, kind),
			"The component is already at its largest value; set a smaller version by hand.",
		)
	}

	major, minor, patch := numbers[0], numbers[1], numbers[2]

	switch kind {
	case BumpMajor:
		major++
		minor, patch = 0, 0
	case BumpMinor:
		minor++
		patch = 0
	case BumpPatch:
		patch++
	default:
		return "", errors.Wrapf(ErrUnknownBumpKind, "bump kind %q", kind)
	}

	return strconv.FormatUint(major, 10) + "." +
		strconv.FormatUint(minor, 10) + "." +
		strconv.FormatUint(patch, 10), nil
}
