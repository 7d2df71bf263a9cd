package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"bookable/backend/internal/domain"
)

const defaultNextDateWindow = 60

type slotsResponse struct {
	Date   string            `json:"date"`
	IsOpen bool              `json:"is_open"`
	Reason string            `json:"reason,omitempty"`
	Slots  []domain.TimeSlot `json:"slots"`
}

func (s *Server) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "availability.slots")

	date := r.URL.Query().Get("date")
	if date == "" {
		badRequest(w, r, "date is required")
		return
	}

	sched, err := s.availability.DaySchedule(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}
	slots, err := s.availability.AvailableSlots(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}
	if slots == nil {
		slots = []domain.TimeSlot{}
	}

	render.JSON(w, r, slotsResponse{
		Date:   date,
		IsOpen: sched.IsOpen,
		Reason: sched.OverrideReason,
		Slots:  slots,
	})
}

type rangeResponse struct {
	Days []domain.DateAvailability `json:"days"`
}

func (s *Server) handleAvailabilityRange(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "availability.range")

	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		badRequest(w, r, "start and end are required")
		return
	}

	days, err := s.availability.Availability(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	render.JSON(w, r, rangeResponse{Days: days})
}

type datesResponse struct {
	Dates []string `json:"dates"`
}

func (s *Server) handleAvailableDates(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "availability.dates")

	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		badRequest(w, r, "start and end are required")
		return
	}

	dates, err := s.availability.AvailableDates(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}

	render.JSON(w, r, datesResponse{Dates: dates})
}

type nextDateResponse struct {
	Date  string `json:"date,omitempty"`
	Found bool   `json:"found"`
}

func (s *Server) handleNextAvailableDate(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "availability.next")

	days := defaultNextDateWindow
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(w, r, "days must be a positive integer")
			return
		}
		days = parsed
	}

	date, err := s.availability.NextAvailableDate(r.Context(), days)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	render.JSON(w, r, nextDateResponse{Date: date, Found: date != ""})
}
