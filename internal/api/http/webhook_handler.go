package http

import (
	"fmt"
	"net/http"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/service"
)

// WebhookHandler receives payment-provider callbacks. Providers retry
// aggressively, so every endpoint here tolerates replays.
type WebhookHandler struct {
	bookings service.BookingService
}

func NewWebhookHandler(bookings service.BookingService) *WebhookHandler {
	return &WebhookHandler{bookings: bookings}
}

func (h *WebhookHandler) PaymentConfirmed(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BookingID   int64  `json:"booking_id"`
		Method      string `json:"method"`
		ProviderRef string `json:"provider_ref"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.BookingID <= 0 {
		writeError(w, fmt.Errorf("%w: booking_id is required", domain.ErrValidation))
		return
	}

	booking, err := h.bookings.ConfirmPayment(r.Context(), body.BookingID, body.Method, body.ProviderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *WebhookHandler) RefundCompleted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reference string `json:"reference"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Reference == "" {
		writeError(w, fmt.Errorf("%w: reference is required", domain.ErrValidation))
		return
	}

	if err := h.bookings.MarkRefundCompleted(r.Context(), body.Reference); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
