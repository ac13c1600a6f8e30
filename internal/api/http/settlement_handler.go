package http

import (
	"fmt"
	"net/http"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/service"
)

type SettlementHandler struct {
	settlement service.SettlementService
}

func NewSettlementHandler(settlement service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlement: settlement}
}

func (h *SettlementHandler) GetEarnings(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	earnings, err := h.settlement.GetOwnerEarnings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, earnings)
}

func (h *SettlementHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.AmountCents <= 0 {
		writeError(w, fmt.Errorf("%w: amount_cents must be positive", domain.ErrValidation))
		return
	}

	payout, err := h.settlement.RequestPayout(r.Context(), userID, body.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payout)
}
