package archspec

import (
	"strconv"
	"strings"
)

// version is a dot-separated sequence of numeric components, e.g. "8.0.1".
// Missing trailing components compare as zero, so "5.1" == "5.1.0".
type version []int

func parseVersion(s string) version {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	v := make(version, len(parts))
	for i, p := range parts {
		// A component that is not a plain integer (e.g. "1-rc1") is treated
		// as 0 as a whole; the version matcher only ever sees the dot-digit
		// form compiler version strings are expected to have.
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			n = 0
		}
		v[i] = n
	}
	return v
}

// compare returns -1, 0, or 1 as a compares less than, equal to, or greater
// than b, padding the shorter version with zero components.
func (a version) compare(b version) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// versionRange is one closed-or-open bound of a version spec. A nil lo or hi
// means that side is unbounded.
type versionRange struct {
	lo, hi version
	raw    string
}

func (r versionRange) matches(v version) bool {
	if r.lo != nil && v.compare(r.lo) < 0 {
		return false
	}
	if r.hi != nil && v.compare(r.hi) > 0 {
		return false
	}
	return true
}

// versionSpec is a disjunction of versionRanges, as produced by splitting a
// spec string like "4.6:4.8.5,8.0:" on commas.
type versionSpec struct {
	ranges []versionRange
	raw    string
}

// parseVersionSpec parses a compiler version spec of the grammar "A:B",
// "A:", ":B", "X", or a comma-separated disjunction of these. An empty
// alternative, or a bound whose dot-separated components are not all
// integers, yields *InvalidVersionSpec.
func parseVersionSpec(spec string) (*versionSpec, error) {
	alternatives := strings.Split(spec, ",")
	vs := &versionSpec{raw: spec, ranges: make([]versionRange, 0, len(alternatives))}

	for _, alt := range alternatives {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, &InvalidVersionSpec{Spec: spec, err: errEmptyAlternative}
		}

		lo, hi, isRange := strings.Cut(alt, ":")
		for _, bound := range []string{lo, hi} {
			if bound == "" {
				continue
			}
			for _, part := range strings.Split(bound, ".") {
				if _, err := strconv.Atoi(strings.TrimSpace(part)); err != nil {
					return nil, &InvalidVersionSpec{Spec: spec, err: err}
				}
			}
		}
		if !isRange {
			// Exact match: "X"
			exact := parseVersion(alt)
			vs.ranges = append(vs.ranges, versionRange{lo: exact, hi: exact, raw: alt})
			continue
		}

		r := versionRange{raw: alt}
		if lo != "" {
			r.lo = parseVersion(lo)
		}
		if hi != "" {
			r.hi = parseVersion(hi)
		}
		vs.ranges = append(vs.ranges, r)
	}

	return vs, nil
}

// matches reports whether target (a dot-separated version string) satisfies
// any alternative of this version spec.
func (vs *versionSpec) matches(target string) bool {
	v := parseVersion(target)
	for _, r := range vs.ranges {
		if r.matches(v) {
			return true
		}
	}
	return false
}

var errEmptyAlternative = versionSpecEmptyError{}

type versionSpecEmptyError struct{}

func (versionSpecEmptyError) Error() string { return "empty alternative in version spec" }
