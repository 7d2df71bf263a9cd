package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/store"
	"bookable/backend/internal/timeutil"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	getByIDFn        func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	getByEditTokenFn func(ctx context.Context, token string) (domain.Appointment, error)
	updateFn         func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	listByDateFn     func(ctx context.Context, date string) ([]domain.Appointment, error)
	listUpcomingFn   func(ctx context.Context, fromDate string, limit int) ([]domain.Appointment, error)
}

func (f *fakeRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, appt)
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.getByIDFn == nil {
		panic("GetByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeRepo) GetByEditToken(ctx context.Context, token string) (domain.Appointment, error) {
	if f.getByEditTokenFn == nil {
		panic("GetByEditToken not configured")
	}
	return f.getByEditTokenFn(ctx, token)
}

func (f *fakeRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, appt)
}

func (f *fakeRepo) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	if f.listByDateFn == nil {
		panic("ListByDate not configured")
	}
	return f.listByDateFn(ctx, date)
}

func (f *fakeRepo) ListUpcoming(ctx context.Context, fromDate string, limit int) ([]domain.Appointment, error) {
	if f.listUpcomingFn == nil {
		panic("ListUpcoming not configured")
	}
	return f.listUpcomingFn(ctx, fromDate, limit)
}

type fakeScheduler struct {
	available bool
	checkErr  error
	schedule  domain.DaySchedule
}

func (f *fakeScheduler) IsSlotAvailable(ctx context.Context, date, clock string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.available, nil
}

func (f *fakeScheduler) DaySchedule(ctx context.Context, date string) (domain.DaySchedule, error) {
	return f.schedule, nil
}

var fixedNow = time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)

func newService(repo *fakeRepo, sched *fakeScheduler) *Service {
	return NewService(repo, sched, timeutil.FixedClock{Instant: fixedNow})
}

func validInput() CreateInput {
	return CreateInput{
		Date:  "2026-01-12",
		Time:  "10:00",
		Name:  "Jan de Vries",
		Email: "jan@example.com",
		Phone: "0612345678",
	}
}

func TestCreate_Valid(t *testing.T) {
	var inserted domain.Appointment
	repo := &fakeRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			inserted = appt
			return appt, nil
		},
	}
	sched := &fakeScheduler{available: true, schedule: domain.DaySchedule{IsOpen: true, SlotDurationMinutes: 30}}
	svc := newService(repo, sched)

	in := validInput()
	in.PostalCode = "1012ab"
	in.Remarks = "  achterdeur graag  "

	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if inserted.Status != domain.AppointmentStatusConfirmed {
		t.Fatalf("status = %q, want confirmed", inserted.Status)
	}
	if inserted.DurationMinutes != 30 {
		t.Fatalf("duration = %d, want 30 (from day schedule)", inserted.DurationMinutes)
	}
	if inserted.PostalCode != "1012 AB" {
		t.Fatalf("postal code = %q, want normalized %q", inserted.PostalCode, "1012 AB")
	}
	if inserted.Remarks == nil || *inserted.Remarks != "achterdeur graag" {
		t.Fatalf("remarks = %v, want trimmed", inserted.Remarks)
	}
	if inserted.EditToken == "" {
		t.Fatalf("expected an edit token")
	}
	if got.EditToken != inserted.EditToken {
		t.Fatalf("returned appointment should carry the token")
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			t.Fatalf("Create must not reach the repository")
			return appt, nil
		},
	}
	svc := newService(repo, &fakeScheduler{available: true})

	tests := []struct {
		name   string
		mutate func(in *CreateInput)
	}{
		{name: "empty name", mutate: func(in *CreateInput) { in.Name = "   " }},
		{name: "bad email", mutate: func(in *CreateInput) { in.Email = "not-an-address" }},
		{name: "bad phone", mutate: func(in *CreateInput) { in.Phone = "12" }},
		{name: "bad postal code", mutate: func(in *CreateInput) { in.PostalCode = "123" }},
		{name: "bad date", mutate: func(in *CreateInput) { in.Date = "12-01-2026" }},
		{name: "bad time", mutate: func(in *CreateInput) { in.Time = "25:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreate_SlotUnavailable(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			t.Fatalf("Create must not reach the repository")
			return appt, nil
		},
	}
	svc := newService(repo, &fakeScheduler{available: false})

	_, err := svc.Create(context.Background(), validInput())
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestCreate_LostRaceSurfacesConflict(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrConflict
		},
	}
	svc := newService(repo, &fakeScheduler{available: true, schedule: domain.DaySchedule{SlotDurationMinutes: 30}})

	_, err := svc.Create(context.Background(), validInput())
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("err = %v, want store.ErrConflict", err)
	}
}

func TestCancelByEditToken(t *testing.T) {
	appt := domain.Appointment{
		ID:        uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Status:    domain.AppointmentStatusConfirmed,
		EditToken: "tok",
	}
	var updated domain.Appointment
	repo := &fakeRepo{
		getByEditTokenFn: func(ctx context.Context, token string) (domain.Appointment, error) {
			if token != "tok" {
				return domain.Appointment{}, store.ErrNotFound
			}
			return appt, nil
		},
		updateFn: func(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
			updated = a
			return a, nil
		},
	}
	svc := newService(repo, &fakeScheduler{})

	got, err := svc.CancelByEditToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("CancelByEditToken error: %v", err)
	}
	if got.Status != domain.AppointmentStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}
	if updated.CancelledAt == nil || !updated.CancelledAt.Equal(fixedNow) {
		t.Fatalf("cancelled_at = %v, want %v", updated.CancelledAt, fixedNow)
	}
}

func TestCancel_TerminalStatesRejected(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.AppointmentStatusCancelled, domain.AppointmentStatusCompleted} {
		repo := &fakeRepo{
			getByEditTokenFn: func(ctx context.Context, token string) (domain.Appointment, error) {
				return domain.Appointment{Status: status, EditToken: "tok"}, nil
			},
		}
		svc := newService(repo, &fakeScheduler{})

		_, err := svc.CancelByEditToken(context.Background(), "tok")
		if !errors.Is(err, ErrNotCancellable) {
			t.Fatalf("status %s: err = %v, want ErrNotCancellable", status, err)
		}
	}
}

func TestCancel_UnknownTokenIsNotFound(t *testing.T) {
	repo := &fakeRepo{
		getByEditTokenFn: func(ctx context.Context, token string) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrNotFound
		},
	}
	svc := newService(repo, &fakeScheduler{})

	_, err := svc.CancelByEditToken(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestUpdateByEditToken(t *testing.T) {
	appt := domain.Appointment{
		ID:        uuid.MustParse("00000000-0000-0000-0000-000000000002"),
		Name:      "Jan de Vries",
		Email:     "jan@example.com",
		Phone:     "0612345678",
		Status:    domain.AppointmentStatusConfirmed,
		EditToken: "tok",
	}
	repo := &fakeRepo{
		getByEditTokenFn: func(ctx context.Context, token string) (domain.Appointment, error) {
			return appt, nil
		},
		updateFn: func(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
			return a, nil
		},
	}
	svc := newService(repo, &fakeScheduler{})

	newPhone := "0687654321"
	emptyRemarks := "  "
	got, err := svc.UpdateByEditToken(context.Background(), "tok", UpdateInput{
		Phone:   &newPhone,
		Remarks: &emptyRemarks,
	})
	if err != nil {
		t.Fatalf("UpdateByEditToken error: %v", err)
	}
	if got.Phone != newPhone {
		t.Fatalf("phone = %q, want %q", got.Phone, newPhone)
	}
	if got.Remarks != nil {
		t.Fatalf("blank remarks should clear the field")
	}
	if got.Name != "Jan de Vries" {
		t.Fatalf("untouched fields must survive the patch")
	}

	badEmail := "nope"
	_, err = svc.UpdateByEditToken(context.Background(), "tok", UpdateInput{Email: &badEmail})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestComplete(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	repo := &fakeRepo{
		getByIDFn: func(ctx context.Context, got uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{ID: id, Status: domain.AppointmentStatusConfirmed}, nil
		},
		updateFn: func(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
			return a, nil
		},
	}
	svc := newService(repo, &fakeScheduler{})

	got, err := svc.Complete(context.Background(), id)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got.Status != domain.AppointmentStatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}

	repo.getByIDFn = func(ctx context.Context, got uuid.UUID) (domain.Appointment, error) {
		return domain.Appointment{ID: id, Status: domain.AppointmentStatusCancelled}, nil
	}
	_, err = svc.Complete(context.Background(), id)
	if !errors.Is(err, ErrNotCompletable) {
		t.Fatalf("err = %v, want ErrNotCompletable", err)
	}
}

func TestUpcoming_StartsToday(t *testing.T) {
	var gotFrom string
	repo := &fakeRepo{
		listUpcomingFn: func(ctx context.Context, fromDate string, limit int) ([]domain.Appointment, error) {
			gotFrom = fromDate
			return nil, nil
		},
	}
	svc := newService(repo, &fakeScheduler{})

	if _, err := svc.Upcoming(context.Background(), 50); err != nil {
		t.Fatalf("Upcoming error: %v", err)
	}
	if gotFrom != "2026-01-07" {
		t.Fatalf("fromDate = %q, want today", gotFrom)
	}
}

func TestEditTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok := newEditToken()
		if tok == "" {
			t.Fatalf("empty token")
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = struct{}{}
	}
}
