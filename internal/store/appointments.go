package store

import (
	"context"

	"github.com/google/uuid"

	"bookable/backend/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	GetByEditToken(ctx context.Context, token string) (domain.Appointment, error)
	Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]domain.Appointment, error)
	ListUpcoming(ctx context.Context, fromDate string, limit int) ([]domain.Appointment, error)
}
