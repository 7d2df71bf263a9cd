// Package availability computes bookable time slots for single dates and
// calendar ranges by merging the weekly template, date overrides, the
// booked-slot conflict set, and the current time.
package availability

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/store"
	"bookable/backend/internal/timeutil"
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

type Service struct {
	store store.ScheduleStore
	clock timeutil.Clock
}

func NewService(st store.ScheduleStore, clock timeutil.Clock) *Service {
	return &Service{store: st, clock: clock}
}

// DaySchedule resolves the open/closed state and operating hours for one
// date, applying override precedence over the weekly template.
func (s *Service) DaySchedule(ctx context.Context, date string) (domain.DaySchedule, error) {
	dow, err := timeutil.DayOfWeek(date)
	if err != nil {
		return domain.DaySchedule{}, validationError(err.Error())
	}

	templates, err := s.templateIndex(ctx)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	overrides, err := s.store.GetDateOverrides(ctx, date, date)
	if err != nil {
		return domain.DaySchedule{}, err
	}

	return domain.ResolveDaySchedule(date, dow, templates, overrides), nil
}

// AvailableSlots returns every slot of a date, booked and past ones
// included with Available=false. Past dates yield an empty list without
// touching the store.
func (s *Service) AvailableSlots(ctx context.Context, date string) ([]domain.TimeSlot, error) {
	if _, err := timeutil.ParseDate(date, s.clock.Now().Location()); err != nil {
		return nil, validationError(err.Error())
	}

	now := s.clock.Now()
	if timeutil.IsDateInPast(date, now) {
		return nil, nil
	}

	sched, err := s.DaySchedule(ctx, date)
	if err != nil {
		return nil, err
	}
	if !sched.IsOpen || sched.OpenTime == "" || sched.CloseTime == "" {
		return nil, nil
	}

	candidates, err := timeutil.GenerateTimeSlots(sched.OpenTime, sched.CloseTime, sched.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}

	booked, err := s.store.GetBookedTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	return buildSlots(candidates, booked, date, now), nil
}

// IsSlotAvailable is the single-slot specialization of AvailableSlots,
// short-circuiting on past-date, past-time-today, outside-hours and
// booked-conflict checks in that order.
func (s *Service) IsSlotAvailable(ctx context.Context, date, clock string) (bool, error) {
	if _, err := timeutil.ParseDate(date, s.clock.Now().Location()); err != nil {
		return false, validationError(err.Error())
	}
	if _, err := timeutil.TimeToMinutes(clock); err != nil {
		return false, validationError(err.Error())
	}

	now := s.clock.Now()
	if timeutil.IsDateInPast(date, now) {
		return false, nil
	}
	if timeutil.IsToday(date, now) && timeutil.IsTimeInPast(clock, now) {
		return false, nil
	}

	sched, err := s.DaySchedule(ctx, date)
	if err != nil {
		return false, err
	}
	if !sched.IsOpen || sched.OpenTime == "" || sched.CloseTime == "" {
		return false, nil
	}

	candidates, err := timeutil.GenerateTimeSlots(sched.OpenTime, sched.CloseTime, sched.SlotDurationMinutes)
	if err != nil {
		return false, err
	}
	onGrid := false
	for _, c := range candidates {
		if c == clock {
			onGrid = true
			break
		}
	}
	if !onGrid {
		return false, nil
	}

	booked, err := s.store.GetBookedTimes(ctx, date)
	if err != nil {
		return false, err
	}
	for _, b := range booked {
		if timeutil.NormalizeClock(b) == clock {
			return false, nil
		}
	}

	return true, nil
}

// Availability computes one DateAvailability per day in [startDate,
// endDate] inclusive. The weekly template and the overrides are fetched
// once; the per-date conflict sets are fetched with one concurrent batch
// so a month view does not pay N sequential round-trips.
func (s *Service) Availability(ctx context.Context, startDate, endDate string) ([]domain.DateAvailability, error) {
	days, err := timeutil.DaysBetween(startDate, endDate)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if days == 0 {
		return nil, validationError("end date precedes start date")
	}

	dates, err := timeutil.DateRange(startDate, days)
	if err != nil {
		return nil, validationError(err.Error())
	}

	templates, err := s.templateIndex(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := s.store.GetDateOverrides(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Conflict-set fan-out: one store read per date, all awaited before any
	// day is assembled. Bounded by the range length.
	booked := make([][]string, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			times, err := s.store.GetBookedTimes(gctx, date)
			if err != nil {
				return err
			}
			booked[i] = times
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]domain.DateAvailability, 0, len(dates))
	for i, date := range dates {
		if timeutil.IsDateInPast(date, now) {
			out = append(out, domain.DateAvailability{Date: date, IsOpen: false, Slots: []domain.TimeSlot{}})
			continue
		}

		dow, err := timeutil.DayOfWeek(date)
		if err != nil {
			return nil, err
		}
		sched := domain.ResolveDaySchedule(date, dow, templates, overrides)
		if !sched.IsOpen || sched.OpenTime == "" || sched.CloseTime == "" {
			out = append(out, domain.DateAvailability{Date: date, IsOpen: false, Slots: []domain.TimeSlot{}})
			continue
		}

		candidates, err := timeutil.GenerateTimeSlots(sched.OpenTime, sched.CloseTime, sched.SlotDurationMinutes)
		if err != nil {
			return nil, err
		}
		slots := buildSlots(candidates, booked[i], date, now)

		// The calendar view's notion of open: at least one slot is still
		// bookable. A fully booked open day renders as closed.
		anyAvailable := false
		for _, slot := range slots {
			if slot.Available {
				anyAvailable = true
				break
			}
		}

		if slots == nil {
			slots = []domain.TimeSlot{}
		}
		out = append(out, domain.DateAvailability{Date: date, IsOpen: anyAvailable, Slots: slots})
	}

	return out, nil
}

// AvailableDates projects Availability to the dates with at least one free
// slot.
func (s *Service) AvailableDates(ctx context.Context, startDate, endDate string) ([]string, error) {
	availability, err := s.Availability(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	var dates []string
	for _, day := range availability {
		if day.IsOpen {
			dates = append(dates, day.Date)
		}
	}
	return dates, nil
}

// NextAvailableDate scans forward from today up to maxDaysAhead days and
// returns the first date with a free slot, or "" when none exists within
// the bound.
func (s *Service) NextAvailableDate(ctx context.Context, maxDaysAhead int) (string, error) {
	if maxDaysAhead <= 0 {
		return "", validationError("max days ahead must be positive")
	}

	today := s.clock.Now().Format(timeutil.DateLayout)
	window, err := timeutil.DateRange(today, maxDaysAhead)
	if err != nil {
		return "", err
	}

	dates, err := s.AvailableDates(ctx, window[0], window[len(window)-1])
	if err != nil {
		return "", err
	}
	if len(dates) == 0 {
		return "", nil
	}
	return dates[0], nil
}

func (s *Service) templateIndex(ctx context.Context) (map[int]domain.WeeklyTemplate, error) {
	rows, err := s.store.GetWeeklyTemplate(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[int]domain.WeeklyTemplate, len(rows))
	for _, row := range rows {
		idx[row.DayOfWeek] = row
	}
	return idx, nil
}

func buildSlots(candidates, booked []string, date string, now time.Time) []domain.TimeSlot {
	conflicts := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		conflicts[timeutil.NormalizeClock(b)] = struct{}{}
	}

	today := timeutil.IsToday(date, now)

	slots := make([]domain.TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		_, taken := conflicts[c]
		past := today && timeutil.IsTimeInPast(c, now)
		slots = append(slots, domain.TimeSlot{Time: c, Available: !taken && !past})
	}
	return slots
}
