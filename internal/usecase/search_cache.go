package usecase

import (
	"context"
	"time"
)

// SearchCache holds vacancy list and report pages. Generation counts
// InvalidateVacancies calls; SetJSONAtGeneration refuses to store a page
// computed before the latest invalidation.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	Generation(ctx context.Context) (int64, error)
	SetJSONAtGeneration(ctx context.Context, key string, value any, ttl time.Duration, gen int64) (bool, error)
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	InvalidateVacancies(ctx context.Context) error
}

// VacancyEventPublisher fans vacancy changes out to subscribers.
type VacancyEventPublisher interface {
	PublishVacancyEvent(action string, ids []int64)
}

type VacancyMetrics interface {
	VacancyCreated()
	VacanciesLiked(n int)
}

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
	EventLiked   = "liked"
)
