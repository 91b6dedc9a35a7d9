package feature

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Version is a dotted package version such as "1.0" or "1.0.pre". Segments
// containing letters mark a prerelease, which sorts before the release.
type Version struct {
	raw      string
	segments []segment
}

type segment struct {
	num     int
	str     string
	numeric bool
}

// ParseVersion parses a dotted version.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version")
	}

	var segs []segment
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		for _, piece := range splitAlnum(part) {
			if n, err := strconv.Atoi(piece); err == nil {
				segs = append(segs, segment{num: n, numeric: true})
				continue
			}
			for _, r := range piece {
				if !unicode.IsLetter(r) {
					return Version{}, fmt.Errorf("invalid version %q", s)
				}
			}
			segs = append(segs, segment{str: piece})
		}
	}
	return Version{raw: s, segments: segs}, nil
}

// splitAlnum splits "1pre2" into "1", "pre", "2".
func splitAlnum(part string) []string {
	var out []string
	start := 0
	for i := 1; i < len(part); i++ {
		if unicode.IsDigit(rune(part[i])) != unicode.IsDigit(rune(part[i-1])) {
			out = append(out, part[start:i])
			start = i
		}
	}
	return append(out, part[start:])
}

func (v Version) String() string { return v.raw }

// Compare returns -1, 0 or 1. Missing trailing segments count as zero.
func (v Version) Compare(o Version) int {
	n := max(len(v.segments), len(o.segments))
	for i := range n {
		a, b := v.at(i), o.at(i)
		switch {
		case a.numeric && b.numeric:
			if a.num != b.num {
				return cmpInt(a.num, b.num)
			}
		case a.numeric != b.numeric:
			// A letter segment is a prerelease and sorts lower.
			if a.numeric {
				return 1
			}
			return -1
		default:
			if c := strings.Compare(a.str, b.str); c != 0 {
				return c
			}
		}
	}
	return 0
}

func (v Version) at(i int) segment {
	if i < len(v.segments) {
		return v.segments[i]
	}
	return segment{numeric: true}
}

// bump returns the upper bound of a pessimistic "~>" constraint: prerelease
// segments are dropped, then the last remaining segment is removed (unless it
// is the only one) and the new last segment incremented.
func (v Version) bump() Version {
	var nums []int
	for _, s := range v.segments {
		if !s.numeric {
			break
		}
		nums = append(nums, s.num)
	}
	if len(nums) > 1 {
		nums = nums[:len(nums)-1]
	}
	if len(nums) == 0 {
		nums = []int{0}
	}
	nums[len(nums)-1]++

	parts := make([]string, len(nums))
	segs := make([]segment, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
		segs[i] = segment{num: n, numeric: true}
	}
	return Version{raw: strings.Join(parts, "."), segments: segs}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

// Requirement is a conjunction of version constraints such as
// ">= 1.0.pre, < 2".
type Requirement struct {
	constraints []constraint
}

type constraint struct {
	op      string
	version Version
}

var operators = []string{">=", "<=", "!=", "~>", ">", "<", "="}

// ParseRequirement parses a comma separated list of constraints. A bare
// version means equality.
func ParseRequirement(s string) (Requirement, error) {
	var req Requirement
	for _, clause := range strings.Split(s, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return Requirement{}, fmt.Errorf("invalid requirement %q", s)
		}
		op := "="
		for _, candidate := range operators {
			if strings.HasPrefix(clause, candidate) {
				op = candidate
				clause = strings.TrimSpace(clause[len(candidate):])
				break
			}
		}
		v, err := ParseVersion(clause)
		if err != nil {
			return Requirement{}, fmt.Errorf("invalid requirement %q: %w", s, err)
		}
		req.constraints = append(req.constraints, constraint{op: op, version: v})
	}
	return req, nil
}

// Satisfied reports whether v meets every constraint.
func (r Requirement) Satisfied(v Version) bool {
	for _, c := range r.constraints {
		cmp := v.Compare(c.version)
		var ok bool
		switch c.op {
		case "=":
			ok = cmp == 0
		case "!=":
			ok = cmp != 0
		case ">":
			ok = cmp > 0
		case "<":
			ok = cmp < 0
		case ">=":
			ok = cmp >= 0
		case "<=":
			ok = cmp <= 0
		case "~>":
			ok = cmp >= 0 && v.Compare(c.version.bump()) < 0
		}
		if !ok {
			return false
		}
	}
	return true
}

// MatchVersion reports whether version satisfies requirement. When either
// side cannot be parsed the two strings must be equal.
func MatchVersion(requirement, version string) bool {
	req, err := ParseRequirement(requirement)
	if err != nil {
		return strings.TrimSpace(requirement) == strings.TrimSpace(version)
	}
	v, err := ParseVersion(version)
	if err != nil {
		return strings.TrimSpace(requirement) == strings.TrimSpace(version)
	}
	return req.Satisfied(v)
}
