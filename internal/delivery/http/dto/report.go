package dto

import "vacancy-board/internal/usecase"

type UserVacanciesItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Vacancies int64  `json:"vacancies"`
}

type UserVacanciesReport struct {
	Items    []UserVacanciesItem `json:"items"`
	Total    int                 `json:"total"`
	NumPages int                 `json:"num_pages"`
	Avg      *float64            `json:"avg"`
}

func NewUserVacanciesReport(r usecase.UserVacancyReport) UserVacanciesReport {
	items := make([]UserVacanciesItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, UserVacanciesItem{ID: it.ID, Name: it.Name, Vacancies: it.Vacancies})
	}
	return UserVacanciesReport{Items: items, Total: r.Total, NumPages: r.NumPages, Avg: r.Avg}
}
