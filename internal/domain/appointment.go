package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid"`
	Date            string            `bun:"appointment_date,notnull"`
	Time            string            `bun:"appointment_time,notnull"`
	DurationMinutes int               `bun:"duration_minutes,notnull"`
	Name            string            `bun:"name,notnull"`
	Email           string            `bun:"email,notnull"`
	Phone           string            `bun:"phone,notnull"`
	PostalCode      string            `bun:"postal_code"`
	Remarks         *string           `bun:"remarks"`
	Status          AppointmentStatus `bun:"status,notnull"`
	EditToken       string            `bun:"edit_token,notnull"`
	AdminNotes      *string           `bun:"admin_notes"`
	CreatedAt       time.Time         `bun:"created_at,notnull"`
	UpdatedAt       time.Time         `bun:"updated_at,notnull"`
	CancelledAt     *time.Time        `bun:"cancelled_at"`
	ReminderSentAt  *time.Time        `bun:"reminder_sent_at"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// IsCancellable reports whether the appointment may still transition to
// cancelled. Cancelled and completed are terminal.
func (a *Appointment) IsCancellable() bool {
	return a.Status == AppointmentStatusConfirmed
}

// IsCompletable reports whether the appointment may transition to completed.
func (a *Appointment) IsCompletable() bool {
	return a.Status == AppointmentStatusConfirmed
}
