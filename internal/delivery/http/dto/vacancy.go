package dto

import "vacancy-board/internal/domain/vacancy"

// VacancyListItem is the listing row; Username is null for ownerless
// vacancies.
type VacancyListItem struct {
	ID       int64    `json:"id"`
	Text     string   `json:"text"`
	Slug     string   `json:"slug"`
	Status   string   `json:"status"`
	Created  string   `json:"created"`
	Username *string  `json:"username"`
	Skills   []string `json:"skills"`
}

type VacancyDetail struct {
	ID      int64    `json:"id"`
	Text    string   `json:"text"`
	Slug    string   `json:"slug"`
	Status  string   `json:"status"`
	Created string   `json:"created"`
	User    *int64   `json:"user"`
	Likes   int64    `json:"likes"`
	Skills  []string `json:"skills"`
}

type VacancyUpdateResponse struct {
	ID      int64    `json:"id"`
	Text    string   `json:"text"`
	Status  string   `json:"status"`
	Slug    string   `json:"slug"`
	User    *int64   `json:"user"`
	Created string   `json:"created"`
	Skills  []string `json:"skills"`
}

// VacancyRequest is the create/update body. Nil fields were absent.
type VacancyRequest struct {
	Text   *string   `json:"text"`
	Slug   *string   `json:"slug"`
	Status *string   `json:"status"`
	Skills *[]string `json:"skills"`
}

func NewVacancyListItem(v vacancy.Vacancy) VacancyListItem {
	return VacancyListItem{
		ID:       v.ID,
		Text:     v.Text,
		Slug:     v.Slug,
		Status:   string(v.Status),
		Created:  v.Created.Format(vacancy.DateLayout),
		Username: v.Username,
		Skills:   skillNames(v.Skills),
	}
}

func NewVacancyDetail(v vacancy.Vacancy) VacancyDetail {
	return VacancyDetail{
		ID:      v.ID,
		Text:    v.Text,
		Slug:    v.Slug,
		Status:  string(v.Status),
		Created: v.Created.Format(vacancy.DateLayout),
		User:    v.UserID,
		Likes:   v.Likes,
		Skills:  skillNames(v.Skills),
	}
}

func NewVacancyDetails(items []vacancy.Vacancy) []VacancyDetail {
	out := make([]VacancyDetail, 0, len(items))
	for _, v := range items {
		out = append(out, NewVacancyDetail(v))
	}
	return out
}

func NewVacancyUpdateResponse(v vacancy.Vacancy) VacancyUpdateResponse {
	return VacancyUpdateResponse{
		ID:      v.ID,
		Text:    v.Text,
		Status:  string(v.Status),
		Slug:    v.Slug,
		User:    v.UserID,
		Created: v.Created.Format(vacancy.DateLayout),
		Skills:  skillNames(v.Skills),
	}
}

func skillNames(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
