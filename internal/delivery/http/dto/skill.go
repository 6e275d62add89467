package dto

import "vacancy-board/internal/domain/skill"

type SkillResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type SkillRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, Name: s.Name, IsActive: s.IsActive}
}
