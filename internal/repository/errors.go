package repository

import "errors"

var (
	ErrVacancyNotFound = errors.New("vacancy not found")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrSkillExists     = errors.New("skill already exists")
)

// UnknownSkillError reports a skill name missing from the vocabulary.
type UnknownSkillError struct {
	Name string
}

func (e *UnknownSkillError) Error() string {
	return "skill not found: " + e.Name
}

func (e *UnknownSkillError) Is(target error) bool {
	return target == ErrSkillNotFound
}
