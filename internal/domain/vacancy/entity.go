package vacancy

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	MaxTextLength = 2000
	MaxSlugLength = 50

	DateLayout = "2006-01-02"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

var ErrInvalidStatus = errors.New("invalid status")

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Vacancy struct {
	ID       int64
	Text     string
	Slug     string
	Status   Status
	Created  time.Time
	UserID   *int64
	Username *string
	Likes    int64
	Skills   []string
}

// ParseStatus maps an empty value to StatusDraft.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusDraft:
		return StatusDraft, nil
	case StatusOpen:
		return StatusOpen, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", ErrInvalidStatus
	}
}

func ValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

// Filter is the immutable search specification for vacancy listings. Any
// non-empty Text filters, whitespace included. An empty SkillTerms slice means
// no skill filtering.
type Filter struct {
	Text       string
	SkillTerms []string
}

func NewFilter(text string, skillTerms []string) Filter {
	terms := make([]string, 0, len(skillTerms))
	for _, t := range skillTerms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		terms = append(terms, t)
	}
	return Filter{Text: text, SkillTerms: terms}
}

func (f Filter) HasText() bool {
	return f.Text != ""
}

func (f Filter) HasSkills() bool {
	return len(f.SkillTerms) > 0
}

func (f Filter) IsEmpty() bool {
	return !f.HasText() && !f.HasSkills()
}
