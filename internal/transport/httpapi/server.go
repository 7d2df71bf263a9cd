// Package httpapi exposes the availability engine and booking flow as a
// JSON API. Public routes cover availability queries and the edit-token
// booking flow; the /admin subtree carries schedule administration and
// staff appointment management. Access gating of /admin is left to the
// deployment.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/service/booking"
	"bookable/backend/internal/store"
)

type availabilityService interface {
	DaySchedule(ctx context.Context, date string) (domain.DaySchedule, error)
	AvailableSlots(ctx context.Context, date string) ([]domain.TimeSlot, error)
	Availability(ctx context.Context, startDate, endDate string) ([]domain.DateAvailability, error)
	AvailableDates(ctx context.Context, startDate, endDate string) ([]string, error)
	NextAvailableDate(ctx context.Context, maxDaysAhead int) (string, error)
}

type bookingService interface {
	Create(ctx context.Context, in booking.CreateInput) (domain.Appointment, error)
	GetByEditToken(ctx context.Context, token string) (domain.Appointment, error)
	UpdateByEditToken(ctx context.Context, token string, in booking.UpdateInput) (domain.Appointment, error)
	CancelByEditToken(ctx context.Context, token string) (domain.Appointment, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, in booking.AdminUpdateInput) (domain.Appointment, error)
	CancelByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Complete(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]domain.Appointment, error)
	Upcoming(ctx context.Context, limit int) ([]domain.Appointment, error)
}

type calendarGenerator interface {
	Generate(appt domain.Appointment) (string, error)
	GenerateCancellation(appt domain.Appointment) (string, error)
	GenerateFeed(name string, appts []domain.Appointment) (string, error)
}

type Server struct {
	availability availabilityService
	booking      bookingService
	schedule     store.ScheduleStore
	calendar     calendarGenerator
	feedName     string
	log          *slog.Logger
}

func NewServer(
	availability availabilityService,
	booking bookingService,
	schedule store.ScheduleStore,
	calendar calendarGenerator,
	feedName string,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		availability: availability,
		booking:      booking,
		schedule:     schedule,
		calendar:     calendar,
		feedName:     feedName,
		log:          log.With(slog.String("component", "httpapi")),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/availability", func(r chi.Router) {
		r.Get("/", s.handleAvailableSlots)
		r.Get("/range", s.handleAvailabilityRange)
		r.Get("/dates", s.handleAvailableDates)
		r.Get("/next", s.handleNextAvailableDate)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", s.handleCreateAppointment)
		r.Route("/{token}", func(r chi.Router) {
			r.Get("/", s.handleGetAppointment)
			r.Patch("/", s.handleUpdateAppointment)
			r.Post("/cancel", s.handleCancelAppointment)
			r.Get("/calendar.ics", s.handleAppointmentCalendar)
		})
	})

	r.Get("/calendar/feed.ics", s.handleCalendarFeed)

	r.Route("/admin", func(r chi.Router) {
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/weekly", s.handleGetWeeklyTemplate)
			r.Put("/weekly", s.handleUpsertWeeklyTemplate)
			r.Get("/overrides", s.handleListOverrides)
			r.Post("/overrides", s.handleCreateOverride)
			r.Delete("/overrides/{id}", s.handleDeleteOverride)
		})
		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", s.handleAdminListAppointments)
			r.Patch("/{id}", s.handleAdminUpdateAppointment)
		})
	})

	return r
}

func (s *Server) requestLog(r *http.Request, handler string) *slog.Logger {
	return s.log.With(
		slog.String("handler", handler),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
