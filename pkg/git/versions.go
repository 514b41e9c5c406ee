package git

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// canonical maps a tag such as "1.2.3" or "v1.2.3-rc1" onto a semver
// string, or returns "" for tags that are not versions. Shorthand such as
// "1", "v1.2" or "2024" is not a version.
func canonical(tag string) string {
	v := tag
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	core, _, _ := strings.Cut(v, "-")
	core, _, _ = strings.Cut(core, "+")
	if strings.Count(core, ".") != 2 {
		return ""
	}
	return semver.Canonical(v)
}

// PickLastMinorVersion chooses the baseline to compare against: among
// stable versions, the newest major.minor line is taken and its lowest
// patch release is returned, so that every change of the line is checked.
// Given 1.0.0, 1.1.0, 1.1.3 and 2.0.0-beta1 it returns 1.1.0.
func PickLastMinorVersion(tags []string) (string, error) {
	type version struct {
		tag, semver string
	}
	var stable []version
	for _, tag := range tags {
		v := canonical(tag)
		if v == "" || semver.Prerelease(v) != "" {
			continue
		}
		stable = append(stable, version{tag: tag, semver: v})
	}
	if len(stable) == 0 {
		return "", fmt.Errorf("%w among %d tags", ErrNoVersions, len(tags))
	}

	slices.SortStableFunc(stable, func(a, b version) int { return semver.Compare(a.semver, b.semver) })
	line := semver.MajorMinor(stable[len(stable)-1].semver)
	for _, v := range stable {
		if semver.MajorMinor(v.semver) == line {
			return v.tag, nil
		}
	}
	return "", ErrNoVersions
}
