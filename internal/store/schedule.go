package store

import (
	"context"

	"github.com/google/uuid"

	"bookable/backend/internal/domain"
)

// ScheduleStore is the engine's view of persisted schedule data: the weekly
// template, date overrides, and the per-date conflict set of booked times.
type ScheduleStore interface {
	GetWeeklyTemplate(ctx context.Context) ([]domain.WeeklyTemplate, error)
	UpsertWeeklyTemplate(ctx context.Context, rows []domain.WeeklyTemplate) error

	// GetDateOverrides returns every override intersecting [startDate,
	// endDate], including recurring overrides regardless of their stored
	// year.
	GetDateOverrides(ctx context.Context, startDate, endDate string) ([]domain.DateOverride, error)
	CreateDateOverride(ctx context.Context, o domain.DateOverride) (domain.DateOverride, error)
	DeleteDateOverride(ctx context.Context, id uuid.UUID) error

	// GetBookedTimes returns the appointment times of every non-cancelled
	// appointment on date.
	GetBookedTimes(ctx context.Context, date string) ([]string, error)
}
