package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/service/booking"
	"bookable/backend/internal/timeutil"
)

type weeklyTemplateRow struct {
	DayOfWeek           int    `json:"day_of_week"`
	IsOpen              bool   `json:"is_open"`
	OpenTime            string `json:"open_time,omitempty"`
	CloseTime           string `json:"close_time,omitempty"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
}

type weeklyTemplateResponse struct {
	Days []weeklyTemplateRow `json:"days"`
}

func (s *Server) handleGetWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.schedule.weekly.get")

	rows, err := s.schedule.GetWeeklyTemplate(r.Context())
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	resp := weeklyTemplateResponse{Days: make([]weeklyTemplateRow, 0, len(rows))}
	for _, row := range rows {
		resp.Days = append(resp.Days, weeklyTemplateRow{
			DayOfWeek:           row.DayOfWeek,
			IsOpen:              row.IsOpen,
			OpenTime:            row.OpenTime,
			CloseTime:           row.CloseTime,
			SlotDurationMinutes: row.SlotDurationMinutes,
		})
	}
	render.JSON(w, r, resp)
}

type upsertWeeklyTemplateRequest struct {
	Days []weeklyTemplateRow `json:"days"`
}

func (s *Server) handleUpsertWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.schedule.weekly.upsert")

	var req upsertWeeklyTemplateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", slog.Any("err", err))
		badRequest(w, r, "failed to decode request body")
		return
	}
	if len(req.Days) == 0 {
		badRequest(w, r, "days is required")
		return
	}

	rows := make([]domain.WeeklyTemplate, 0, len(req.Days))
	for _, day := range req.Days {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			badRequest(w, r, "day_of_week must be 0 (Monday) through 6 (Sunday)")
			return
		}
		if day.IsOpen {
			openMin, err := timeutil.TimeToMinutes(day.OpenTime)
			if err != nil {
				badRequest(w, r, "open_time must be HH:MM")
				return
			}
			closeMin, err := timeutil.TimeToMinutes(day.CloseTime)
			if err != nil {
				badRequest(w, r, "close_time must be HH:MM")
				return
			}
			if closeMin <= openMin {
				badRequest(w, r, "close_time must be after open_time")
				return
			}
			if day.SlotDurationMinutes <= 0 {
				badRequest(w, r, "slot_duration_minutes must be positive")
				return
			}
		}
		rows = append(rows, domain.WeeklyTemplate{
			DayOfWeek:           day.DayOfWeek,
			IsOpen:              day.IsOpen,
			OpenTime:            day.OpenTime,
			CloseTime:           day.CloseTime,
			SlotDurationMinutes: day.SlotDurationMinutes,
		})
	}

	if err := s.schedule.UpsertWeeklyTemplate(r.Context(), rows); err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	log.Info("weekly template upserted", slog.Int("days", len(rows)))
	render.JSON(w, r, upsertWeeklyTemplateRequest{Days: req.Days})
}

type overrideResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	EndDate       *string `json:"end_date,omitempty"`
	IsClosed      bool    `json:"is_closed"`
	OpenTime      *string `json:"open_time,omitempty"`
	CloseTime     *string `json:"close_time,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	IsRecurring   bool    `json:"is_recurring"`
	ShowOnWebsite bool    `json:"show_on_website"`
}

func toOverrideResponse(o domain.DateOverride) overrideResponse {
	return overrideResponse{
		ID:            o.ID.String(),
		Date:          o.Date,
		EndDate:       o.EndDate,
		IsClosed:      o.IsClosed,
		OpenTime:      o.OpenTime,
		CloseTime:     o.CloseTime,
		Reason:        o.Reason,
		IsRecurring:   o.IsRecurring,
		ShowOnWebsite: o.ShowOnWebsite,
	}
}

func (s *Server) handleListOverrides(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.schedule.overrides.list")

	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		badRequest(w, r, "start and end are required")
		return
	}

	overrides, err := s.schedule.GetDateOverrides(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	resp := make([]overrideResponse, 0, len(overrides))
	for _, o := range overrides {
		resp = append(resp, toOverrideResponse(o))
	}
	render.JSON(w, r, map[string][]overrideResponse{"overrides": resp})
}

type createOverrideRequest struct {
	Date          string  `json:"date"`
	EndDate       *string `json:"end_date,omitempty"`
	IsClosed      bool    `json:"is_closed"`
	OpenTime      *string `json:"open_time,omitempty"`
	CloseTime     *string `json:"close_time,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	IsRecurring   bool    `json:"is_recurring"`
	ShowOnWebsite bool    `json:"show_on_website"`
}

func (s *Server) handleCreateOverride(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.schedule.overrides.create")

	var req createOverrideRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", slog.Any("err", err))
		badRequest(w, r, "failed to decode request body")
		return
	}

	if _, err := timeutil.ParseDate(req.Date, time.UTC); err != nil {
		badRequest(w, r, "date must be YYYY-MM-DD")
		return
	}
	if req.EndDate != nil {
		if _, err := timeutil.ParseDate(*req.EndDate, time.UTC); err != nil {
			badRequest(w, r, "end_date must be YYYY-MM-DD")
			return
		}
		if *req.EndDate < req.Date {
			badRequest(w, r, "end_date must not precede date")
			return
		}
	}
	if !req.IsClosed {
		if req.OpenTime == nil || req.CloseTime == nil {
			badRequest(w, r, "open_time and close_time are required for an open override")
			return
		}
		openMin, err := timeutil.TimeToMinutes(*req.OpenTime)
		if err != nil {
			badRequest(w, r, "open_time must be HH:MM")
			return
		}
		closeMin, err := timeutil.TimeToMinutes(*req.CloseTime)
		if err != nil {
			badRequest(w, r, "close_time must be HH:MM")
			return
		}
		if closeMin <= openMin {
			badRequest(w, r, "close_time must be after open_time")
			return
		}
	}

	override := domain.DateOverride{
		Date:          req.Date,
		EndDate:       req.EndDate,
		IsClosed:      req.IsClosed,
		Reason:        req.Reason,
		IsRecurring:   req.IsRecurring,
		ShowOnWebsite: req.ShowOnWebsite,
	}
	if !req.IsClosed {
		override.OpenTime = req.OpenTime
		override.CloseTime = req.CloseTime
	}

	created, err := s.schedule.CreateDateOverride(r.Context(), override)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	log.Info("date override created",
		slog.String("override_id", created.ID.String()),
		slog.String("date", created.Date),
		slog.Bool("is_closed", created.IsClosed),
	)

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, toOverrideResponse(created))
}

func (s *Server) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.schedule.overrides.delete")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r, "invalid override id")
		return
	}

	if err := s.schedule.DeleteDateOverride(r.Context(), id); err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	log.Info("date override deleted", slog.String("override_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.appointments.list")

	date := r.URL.Query().Get("date")
	if date == "" {
		badRequest(w, r, "date is required")
		return
	}

	appts, err := s.booking.ListByDate(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, log, err)
		return
	}

	resp := make([]appointmentResponse, 0, len(appts))
	for _, appt := range appts {
		resp = append(resp, toAppointmentResponse(appt, false))
	}
	render.JSON(w, r, map[string][]appointmentResponse{"appointments": resp})
}

type adminUpdateAppointmentRequest struct {
	AdminNotes *string `json:"admin_notes,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// handleAdminUpdateAppointment patches staff notes and drives the two
// terminal status transitions. Notes are applied before a transition so a
// single request can record why an appointment was cancelled.
func (s *Server) handleAdminUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r, "admin.appointments.update")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r, "invalid appointment id")
		return
	}

	var req adminUpdateAppointmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", slog.Any("err", err))
		badRequest(w, r, "failed to decode request body")
		return
	}

	var appt domain.Appointment
	if req.AdminNotes != nil {
		appt, err = s.booking.AdminUpdate(r.Context(), id, booking.AdminUpdateInput{AdminNotes: req.AdminNotes})
		if err != nil {
			s.writeServiceError(w, r, log, err)
			return
		}
	}

	if req.Status != nil {
		switch domain.AppointmentStatus(*req.Status) {
		case domain.AppointmentStatusCancelled:
			appt, err = s.booking.CancelByID(r.Context(), id)
		case domain.AppointmentStatusCompleted:
			appt, err = s.booking.Complete(r.Context(), id)
		default:
			badRequest(w, r, "status must be cancelled or completed")
			return
		}
		if err != nil {
			s.writeServiceError(w, r, log, err)
			return
		}
	}

	if req.AdminNotes == nil && req.Status == nil {
		badRequest(w, r, "nothing to update")
		return
	}

	log.Info("appointment updated by staff", slog.String("appointment_id", id.String()))
	render.JSON(w, r, toAppointmentResponse(appt, false))
}
