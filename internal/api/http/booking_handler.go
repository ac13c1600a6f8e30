package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
	pricing  service.PricingService
	checker  service.AvailabilityService
}

func NewBookingHandler(bookings service.BookingService, pricing service.PricingService, checker service.AvailabilityService) *BookingHandler {
	return &BookingHandler{bookings: bookings, pricing: pricing, checker: checker}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return id, nil
}

func pageParams(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

// Quote prices a booking without creating anything.
func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req service.QuoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.RenterID = userID

	breakdown, err := h.pricing.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// CheckAvailability reports whether the vehicle is free for a window,
// including the blocking booking's window when it is not.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	pickupAt, err1 := time.Parse(time.RFC3339, q.Get("pickup_at"))
	returnAt, err2 := time.Parse(time.RFC3339, q.Get("return_at"))
	if err1 != nil || err2 != nil {
		writeError(w, fmt.Errorf("%w: pickup_at and return_at must be RFC 3339 timestamps", domain.ErrValidation))
		return
	}

	available, window, err := h.checker.Check(r.Context(), vehicleID, pickupAt, returnAt, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": available,
		"conflict":  window,
	})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req service.QuoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.RenterID = userID

	booking, err := h.bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	booking, err := h.bookings.GetBooking(r.Context(), userID, role, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pageParams(r)

	bookings, total, err := h.bookings.ListRentals(r.Context(), userID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
		"page":     page,
	})
}

func (h *BookingHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pageParams(r)

	bookings, total, err := h.bookings.ListLendings(r.Context(), userID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
		"page":     page,
	})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	var body struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookings.CancelBooking(r.Context(), userID, role, bookingID, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Extend(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		NewReturnAt time.Time `json:"new_return_at"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	booking, window, err := h.bookings.RequestExtension(r.Context(), userID, bookingID, body.NewReturnAt)
	if err != nil {
		if window != nil {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":    err.Error(),
				"conflict": window,
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	_, role, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookings.OverrideStatus(r.Context(), role, bookingID, domain.BookingStatus(body.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
