package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"bookable/backend/internal/service/availability"
	"bookable/backend/internal/service/booking"
	"bookable/backend/internal/store"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	w.WriteHeader(status)
	render.JSON(w, r, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", msg)
}

// writeServiceError maps service outcomes onto HTTP statuses. Anything
// unmapped is a store I/O failure and reports as a generic 500; the cause
// is logged, never echoed to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var availErr *availability.ValidationError
	var bookErr *booking.ValidationError
	switch {
	case errors.As(err, &availErr), errors.As(err, &bookErr):
		log.Warn("invalid request", slog.Any("err", err))
		badRequest(w, r, err.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info("resource not found")
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, booking.ErrSlotUnavailable), errors.Is(err, store.ErrConflict):
		log.Info("slot not available")
		writeError(w, r, http.StatusConflict, "SLOT_NOT_AVAILABLE", "slot is not available")
	case errors.Is(err, booking.ErrNotCancellable):
		log.Info("appointment not cancellable")
		writeError(w, r, http.StatusConflict, "INVALID_STATE", "appointment can no longer be cancelled")
	case errors.Is(err, booking.ErrNotCompletable):
		log.Info("appointment not completable")
		writeError(w, r, http.StatusConflict, "INVALID_STATE", "appointment cannot be completed")
	default:
		log.Error("request failed", slog.Any("err", err))
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
