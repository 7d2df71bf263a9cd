package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/store"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) GetWeeklyTemplate(ctx context.Context) ([]domain.WeeklyTemplate, error) {
	var rows []domain.WeeklyTemplate
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("day_of_week ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) UpsertWeeklyTemplate(ctx context.Context, rows []domain.WeeklyTemplate) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().
		Model(&rows).
		On("CONFLICT (day_of_week) DO UPDATE").
		Set("is_open = EXCLUDED.is_open").
		Set("open_time = EXCLUDED.open_time").
		Set("close_time = EXCLUDED.close_time").
		Set("slot_duration_minutes = EXCLUDED.slot_duration_minutes").
		Exec(ctx)
	return err
}

// GetDateOverrides returns overrides whose range intersects [startDate,
// endDate]. Recurring overrides are returned regardless of their stored
// year; matching them to concrete dates is the resolver's job.
func (r *ScheduleRepo) GetDateOverrides(ctx context.Context, startDate, endDate string) ([]domain.DateOverride, error) {
	var rows []domain.DateOverride
	err := r.db.NewSelect().
		Model(&rows).
		Where("is_recurring OR (date <= ? AND COALESCE(end_date, date) >= ?)", endDate, startDate).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) CreateDateOverride(ctx context.Context, o domain.DateOverride) (domain.DateOverride, error) {
	m := o
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.DateOverride{}, err
	}
	return m, nil
}

func (r *ScheduleRepo) DeleteDateOverride(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.DateOverride)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepo) GetBookedTimes(ctx context.Context, date string) ([]string, error) {
	var times []string
	err := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Column("appointment_time").
		Where("appointment_date = ?", date).
		Where("status <> ?", domain.AppointmentStatusCancelled).
		OrderExpr("appointment_time ASC").
		Scan(ctx, &times)
	if err != nil {
		return nil, err
	}
	return times, nil
}
