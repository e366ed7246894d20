package targeting

import (
	"fmt"
	"strconv"
	"strings"
)

// compareVersions orders an actual version string (the user attribute)
// against a target version (the condition operand) and returns -1, 0 or 1.
//
// The ordering is the attribute-targeting flavor of semver shared across
// SDKs, not strict semver: the target may be partial, in which case only the
// segments it names are compared: a target of "2.1" equals any "2.1.x".
// A pre-release version orders before its release ("3.0.0-beta" < "3.0.0");
// build metadata after '+' is ignored.
func compareVersions(actual, target string) (int, error) {
	actualMain, actualPre, err := splitVersion(actual)
	if err != nil {
		return 0, err
	}
	targetMain, targetPre, err := splitVersion(target)
	if err != nil {
		return 0, err
	}

	for i, want := range targetMain {
		if i >= len(actualMain) {
			// Target is more specific than the actual version; the actual
			// version orders below it ("2.1" vs target "2.1.1").
			return -1, nil
		}
		got := actualMain[i]
		switch {
		case got > want:
			return 1, nil
		case got < want:
			return -1, nil
		}
	}

	// Numeric segments match as far as the target specifies.
	switch {
	case actualPre == "" && targetPre == "":
		return 0, nil
	case actualPre == "":
		return 1, nil
	case targetPre == "":
		return -1, nil
	default:
		return strings.Compare(actualPre, targetPre), nil
	}
}

// splitVersion parses "major.minor.patch-prerelease+build" into numeric
// segments and the pre-release identifier.
func splitVersion(version string) ([]uint64, string, error) {
	if version == "" || strings.ContainsAny(version, " ") {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidSemver, version)
	}

	// Build metadata never affects ordering.
	if at := strings.IndexByte(version, '+'); at >= 0 {
		version = version[:at]
	}

	var pre string
	if at := strings.IndexByte(version, '-'); at >= 0 {
		version, pre = version[:at], version[at+1:]
		if pre == "" {
			return nil, "", fmt.Errorf("%w: %q", ErrInvalidSemver, version)
		}
	}

	raw := strings.Split(version, ".")
	if len(raw) > 3 {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidSemver, version)
	}
	parts := make([]uint64, 0, len(raw))
	for _, p := range raw {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("%w: segment %q", ErrInvalidSemver, p)
		}
		parts = append(parts, n)
	}
	return parts, pre, nil
}
