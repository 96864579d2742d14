package appcast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered release version: a tuple of non-negative integers
// parsed from a dotted numeric string such as "5.8.8".
//
// Ordering is component-wise from left to right; the first unequal component
// decides, and missing trailing components count as zero, so "1.2" equals
// "1.2.0".
type Version []int

// errEmptyVersion is returned when the version string has no components.
var errEmptyVersion = errors.New("empty version string")

// ParseVersion parses a dotted numeric string into a Version.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptyVersion
	}

	parts := strings.Split(s, ".")
	v := make(Version, 0, len(parts))

	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("version component %q: %w", part, err)
		}

		if n < 0 {
			return nil, fmt.Errorf("version component %q: negative components are not allowed", part)
		}

		v = append(v, n)
	}

	return v, nil
}

// Compare returns -1, 0 or 1 when v is ordered before, equal to or after other.
func (v Version) Compare(other Version) int {
	size := len(v)
	if len(other) > size {
		size = len(other)
	}

	for i := 0; i < size; i++ {
		a, b := v.component(i), other.component(i)

		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}

	return 0
}

// Less reports whether v is strictly older than other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other denote the same version.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// String renders the version back as a dotted numeric string.
func (v Version) String() string {
	if len(v) == 0 {
		return ""
	}

	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, strconv.Itoa(n))
	}

	return strings.Join(parts, ".")
}

// Clone returns a copy that shares no storage with v.
func (v Version) Clone() Version {
	if v == nil {
		return nil
	}

	c := make(Version, len(v))
	copy(c, v)

	return c
}

// component returns the i-th component, treating missing ones as zero.
func (v Version) component(i int) int {
	if i >= len(v) {
		return 0
	}

	return v[i]
}
