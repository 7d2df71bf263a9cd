package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/ics"
	"bookable/backend/internal/service/booking"
)

type appointmentResponse struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"duration_minutes"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	PostalCode      string  `json:"postal_code,omitempty"`
	Remarks         *string `json:"remarks,omitempty"`
	Status          string  `json:"status"`
	EditToken       string  `json:"edit_token,omitempty"`
	AdminNotes      *string `json:"admin_notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
	CancelledAt     *string `json:"cancelled_at,omitempty"`
}

func toAppointmentResponse(appt domain.Appointment, includeToken bool) appointmentResponse {
	resp := appointmentResponse{
		ID:              appt.ID.String(),
		Date:            appt.Date,
		Time:            appt.Time,
		DurationMinutes: appt.DurationMinutes,
		Name:            appt.Name,
		Email:           appt.Email,
		Phone:           appt.Phone,
		PostalCode:      appt.PostalCode,
		Remarks:         appt.Remarks,
		Status:          string(appt.Status),
		AdminNotes:      appt.AdminNotes,
		CreatedAt:       appt.CreatedAt.Format(time.RFC3339),
	}
	if includeToken {
		resp.EditToken = appt.EditToken
	}
	if appt.CancelledAt != nil {
		cancelled := appt.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}
	return resp
}

type createAppointmentRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	PostalCode      string `json:"postal_code,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "appointments.create")

	var req createAppointmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", slog.Any("err", err))
		badRequest(w, r, "failed to decode request body")
		return
	}

	appt, err := s.booking.Create(r.Context(), booking.CreateInput{
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PostalCode:      req.PostalCode,
		Remarks:         req.Remarks,
	})
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	log.Info("appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("date", appt.Date),
		slog.String("time", appt.Time),
	)

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, toAppointmentResponse(appt, true))
}

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "appointments.get")

	appt, err := s.booking.GetByEditToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	render.JSON(w, r, toAppointmentResponse(appt, true))
}

type updateAppointmentRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Remarks *string `json:"remarks,omitempty"`
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "appointments.update")

	var req updateAppointmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", slog.Any("err", err))
		badRequest(w, r, "failed to decode request body")
		return
	}

	appt, err := s.booking.UpdateByEditToken(r.Context(), chi.URLParam(r, "token"), booking.UpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Remarks: req.Remarks,
	})
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	log.Info("appointment updated", slog.String("appointment_id", appt.ID.String()))
	render.JSON(w, r, toAppointmentResponse(appt, true))
}

func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "appointments.cancel")

	appt, err := s.booking.CancelByEditToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	log.Info("appointment cancelled", slog.String("appointment_id", appt.ID.String()))
	render.JSON(w, r, toAppointmentResponse(appt, true))
}

// handleAppointmentCalendar serves the .ics artifact for one appointment:
// an invite while confirmed, the matching cancellation notice once
// cancelled.
func (s *Server) handleAppointmentCalendar(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "appointments.calendar")

	appt, err := s.booking.GetByEditToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	var artifact string
	if appt.Status == domain.AppointmentStatusCancelled {
		artifact, err = s.calendar.GenerateCancellation(appt)
	} else {
		artifact, err = s.calendar.Generate(appt)
	}
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	writeCalendar(w, artifact, ics.AttachmentFilename(appt.Date))
}

const maxFeedEvents = 500

func (s *Server) handleCalendarFeed(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "calendar.feed")

	name := r.URL.Query().Get("name")
	if name == "" {
		name = s.feedName
	}

	appts, err := s.booking.Upcoming(r.Context(), maxFeedEvents)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	artifact, err := s.calendar.GenerateFeed(name, appts)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	writeCalendar(w, artifact, "feed.ics")
}

func writeCalendar(w http.ResponseWriter, artifact, filename string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(artifact))
}
