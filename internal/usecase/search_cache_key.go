package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

const (
	vacancyListKeyPrefix   = "vacancies:list:"
	vacancyListLockPrefix  = "vacancies:lock:"
	vacancyReportKeyPrefix = "vacancies:report:"
)

type vacancyListCacheKeyInput struct {
	Text    string   `json:"text"`
	Skills  []string `json:"skills"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

// normalizeSearchValue is used for skill terms, which the filter trims.
func normalizeSearchValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// VacancyListCacheKey is stable across skill term order and casing, which
// do not change the result set. Text keeps its whitespace: ILIKE matches it
// literally.
func VacancyListCacheKey(text string, skills []string, page, perPage int) string {
	norm := make([]string, 0, len(skills))
	for _, s := range skills {
		s = normalizeSearchValue(s)
		if s == "" {
			continue
		}
		norm = append(norm, s)
	}
	sort.Strings(norm)

	in := vacancyListCacheKeyInput{
		Text:    strings.ToLower(text),
		Skills:  norm,
		Page:    page,
		PerPage: perPage,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return vacancyListKeyPrefix + hex.EncodeToString(sum[:])
}

func VacancyListLockKey(listKey string) string {
	return vacancyListLockPrefix + strings.TrimPrefix(strings.TrimSpace(listKey), vacancyListKeyPrefix)
}

func VacancyReportCacheKey(rawPage string) string {
	return vacancyReportKeyPrefix + normalizeSearchValue(rawPage)
}
