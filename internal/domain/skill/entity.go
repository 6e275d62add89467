package skill

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 100

type Skill struct {
	ID       int64
	Name     string
	IsActive bool
}

// UpdatePolicy decides what happens to skill names on vacancy update that
// are not in the vocabulary yet.
type UpdatePolicy string

const (
	UpdateStrict      UpdatePolicy = "strict"
	UpdateGetOrCreate UpdatePolicy = "get_or_create"
)

// MergePolicy decides how the submitted skill names combine with the
// vacancy's current skill set.
type MergePolicy string

const (
	MergeAdditive MergePolicy = "additive"
	MergeReplace  MergePolicy = "replace"
)

var (
	ErrUnknownUpdatePolicy = errors.New("unknown skill update policy")
	ErrUnknownMergePolicy  = errors.New("unknown skill merge policy")
)

func ParseUpdatePolicy(s string) (UpdatePolicy, error) {
	switch UpdatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case UpdateStrict:
		return UpdateStrict, nil
	case UpdateGetOrCreate:
		return UpdateGetOrCreate, nil
	default:
		return "", ErrUnknownUpdatePolicy
	}
}

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case MergeAdditive:
		return MergeAdditive, nil
	case MergeReplace:
		return MergeReplace, nil
	default:
		return "", ErrUnknownMergePolicy
	}
}

// NormalizeName trims the name. Lookup is case-insensitive but the stored
// spelling is the one first submitted.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= MaxNameLength
}

// UniqueNames normalizes names and drops case-insensitive duplicates,
// keeping first-seen order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = NormalizeName(n)
		if n == "" {
			continue
		}
		k := strings.ToLower(n)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	return out
}
