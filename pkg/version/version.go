// Package version normalizes user-supplied version specs into release tags
// and resolves which published binary name a release carries.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Latest is the version spec meaning "whatever the newest release is".
const Latest = "latest"

// NormalizeTag converts a version spec into a release tag. "latest" passes
// through unchanged; anything else gets a "v" prefix if it does not already
// have one.
func NormalizeTag(versionSpec string) string {
	if versionSpec == Latest {
		return Latest
	}
	if strings.HasPrefix(versionSpec, "v") {
		return versionSpec
	}
	return "v" + versionSpec
}

// GreaterOrEqual reports whether version a orders at or after version b.
// Both values may carry a leading "v"; comparison is by numeric dot-segment
// ordering, so "1.10.0" >= "1.9.0".
func GreaterOrEqual(a, b string) (bool, error) {
	va, err := semver.NewVersion(strings.TrimPrefix(a, "v"))
	if err != nil {
		return false, errors.Wrapf(err, "invalid version %q", a)
	}
	vb, err := semver.NewVersion(strings.TrimPrefix(b, "v"))
	if err != nil {
		return false, errors.Wrapf(err, "invalid version %q", b)
	}
	return va.Compare(vb) >= 0, nil
}

// ResolveBinaryName selects the binary name published for the given tag.
// Releases at or after renameVersion (and "latest") ship under name; earlier
// releases ship under legacyName.
func ResolveBinaryName(tag, name, legacyName, renameVersion string) (string, error) {
	if tag == Latest {
		return name, nil
	}
	renamed, err := GreaterOrEqual(tag, renameVersion)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve binary name")
	}
	if renamed {
		return name, nil
	}
	return legacyName, nil
}
