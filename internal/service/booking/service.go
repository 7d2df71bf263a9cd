// Package booking owns the appointment lifecycle: creation through the
// public flow, holder access via edit token, staff updates, and the
// terminal cancel/complete transitions.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/store"
	"bookable/backend/internal/timeutil"
	"bookable/backend/internal/validate"
)

var (
	// ErrSlotUnavailable is the pre-insert rejection: the requested slot is
	// in the past, outside operating hours, or already booked. The
	// check-then-act window is additionally closed by the store's unique
	// constraint, which surfaces as store.ErrConflict.
	ErrSlotUnavailable = errors.New("slot not available")

	// ErrNotCancellable rejects a cancel of an appointment in a terminal
	// state.
	ErrNotCancellable = errors.New("appointment not cancellable")

	// ErrNotCompletable rejects completion of a non-confirmed appointment.
	ErrNotCompletable = errors.New("appointment not completable")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Scheduler is the slice of the availability engine the booking flow needs.
type Scheduler interface {
	IsSlotAvailable(ctx context.Context, date, clock string) (bool, error)
	DaySchedule(ctx context.Context, date string) (domain.DaySchedule, error)
}

type Service struct {
	repo      store.AppointmentRepository
	scheduler Scheduler
	clock     timeutil.Clock
}

func NewService(repo store.AppointmentRepository, scheduler Scheduler, clock timeutil.Clock) *Service {
	return &Service{repo: repo, scheduler: scheduler, clock: clock}
}

type CreateInput struct {
	Date            string
	Time            string
	DurationMinutes int
	Name            string
	Email           string
	Phone           string
	PostalCode      string
	Remarks         string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Appointment{}, validationError("name is required")
	}
	if !validate.Email(in.Email) {
		return domain.Appointment{}, validationError("invalid email address")
	}
	if !validate.Phone(in.Phone) {
		return domain.Appointment{}, validationError("invalid phone number")
	}
	postal := ""
	if strings.TrimSpace(in.PostalCode) != "" {
		if !validate.PostalCode(in.PostalCode) {
			return domain.Appointment{}, validationError("invalid postal code")
		}
		postal = validate.NormalizePostalCode(in.PostalCode)
	}
	if _, err := timeutil.ParseDate(in.Date, s.clock.Now().Location()); err != nil {
		return domain.Appointment{}, validationError("invalid date")
	}
	if _, err := timeutil.TimeToMinutes(in.Time); err != nil {
		return domain.Appointment{}, validationError("invalid time")
	}

	available, err := s.scheduler.IsSlotAvailable(ctx, in.Date, in.Time)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !available {
		return domain.Appointment{}, ErrSlotUnavailable
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		sched, err := s.scheduler.DaySchedule(ctx, in.Date)
		if err != nil {
			return domain.Appointment{}, err
		}
		duration = sched.SlotDurationMinutes
	}
	if duration <= 0 {
		return domain.Appointment{}, validationError("invalid duration")
	}

	appt := domain.Appointment{
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: duration,
		Name:            name,
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		PostalCode:      postal,
		Status:          domain.AppointmentStatusConfirmed,
		EditToken:       newEditToken(),
	}
	if remarks := strings.TrimSpace(in.Remarks); remarks != "" {
		appt.Remarks = &remarks
	}

	return s.repo.Create(ctx, appt)
}

func (s *Service) GetByEditToken(ctx context.Context, token string) (domain.Appointment, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Appointment{}, validationError("edit token is required")
	}
	return s.repo.GetByEditToken(ctx, token)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateInput patches holder-editable fields. Nil fields are untouched.
// Moving an appointment to a different slot is done by cancelling and
// rebooking, not by patching.
type UpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Remarks *string
}

func (s *Service) UpdateByEditToken(ctx context.Context, token string, in UpdateInput) (domain.Appointment, error) {
	appt, err := s.GetByEditToken(ctx, token)
	if err != nil {
		return domain.Appointment{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Appointment{}, validationError("name is required")
		}
		appt.Name = name
	}
	if in.Email != nil {
		if !validate.Email(*in.Email) {
			return domain.Appointment{}, validationError("invalid email address")
		}
		appt.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		if !validate.Phone(*in.Phone) {
			return domain.Appointment{}, validationError("invalid phone number")
		}
		appt.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Remarks != nil {
		remarks := strings.TrimSpace(*in.Remarks)
		if remarks == "" {
			appt.Remarks = nil
		} else {
			appt.Remarks = &remarks
		}
	}

	return s.repo.Update(ctx, appt)
}

// AdminUpdateInput patches staff-only fields.
type AdminUpdateInput struct {
	AdminNotes *string
}

func (s *Service) AdminUpdate(ctx context.Context, id uuid.UUID, in AdminUpdateInput) (domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	if in.AdminNotes != nil {
		notes := strings.TrimSpace(*in.AdminNotes)
		if notes == "" {
			appt.AdminNotes = nil
		} else {
			appt.AdminNotes = &notes
		}
	}

	return s.repo.Update(ctx, appt)
}

func (s *Service) CancelByEditToken(ctx context.Context, token string) (domain.Appointment, error) {
	appt, err := s.GetByEditToken(ctx, token)
	if err != nil {
		return domain.Appointment{}, err
	}
	return s.cancel(ctx, appt)
}

func (s *Service) CancelByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	return s.cancel(ctx, appt)
}

func (s *Service) cancel(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if !appt.IsCancellable() {
		return domain.Appointment{}, ErrNotCancellable
	}
	now := s.clock.Now().UTC()
	appt.Status = domain.AppointmentStatusCancelled
	appt.CancelledAt = &now
	return s.repo.Update(ctx, appt)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !appt.IsCompletable() {
		return domain.Appointment{}, ErrNotCompletable
	}
	appt.Status = domain.AppointmentStatusCompleted
	return s.repo.Update(ctx, appt)
}

func (s *Service) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	if _, err := timeutil.ParseDate(date, time.UTC); err != nil {
		return nil, validationError("invalid date")
	}
	return s.repo.ListByDate(ctx, date)
}

// Upcoming lists confirmed appointments from today onward, for the
// read-only calendar feed.
func (s *Service) Upcoming(ctx context.Context, limit int) ([]domain.Appointment, error) {
	today := s.clock.Now().Format(timeutil.DateLayout)
	return s.repo.ListUpcoming(ctx, today, limit)
}

// newEditToken mints the opaque holder credential. UUIDv4 carries 122 bits
// of randomness, enough to make guessing a token infeasible.
func newEditToken() string {
	return uuid.NewString()
}
