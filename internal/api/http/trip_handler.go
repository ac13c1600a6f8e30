package http

import (
	"context"
	"net/http"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/service"
)

type tripOp func(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reading service.TripReading) (*domain.Booking, error)

type TripHandler struct {
	trips service.TripService
}

func NewTripHandler(trips service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.trips.StartTrip)
}

func (h *TripHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.trips.CompleteTrip)
}

func (h *TripHandler) handle(w http.ResponseWriter, r *http.Request, op tripOp) {
	userID, role, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}

	var reading service.TripReading
	if err := decodeBody(r, &reading); err != nil {
		writeError(w, err)
		return
	}

	booking, err := op(r.Context(), userID, role, bookingID, reading)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
