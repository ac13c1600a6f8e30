package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vehiclerental-backend/internal/security"
)

// NewRouter wires every handler under /api/v1. Webhooks sit outside the
// user-auth subtree and are guarded by the shared webhook secret instead.
func NewRouter(
	tokens security.TokenManager,
	webhookSecret string,
	bookings *BookingHandler,
	trips *TripHandler,
	settlement *SettlementHandler,
	notifications *NotificationHandler,
	webhooks *WebhookHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/vehicles/{vehicleID:[0-9]+}/availability", bookings.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/bookings/quote", bookings.Quote).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingID:[0-9]+}", bookings.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingID:[0-9]+}/cancel", bookings.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingID:[0-9]+}/extend", bookings.Extend).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingID:[0-9]+}/status", bookings.OverrideStatus).Methods(http.MethodPut)
	api.HandleFunc("/rentals", bookings.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/lendings", bookings.ListLendings).Methods(http.MethodGet)

	api.HandleFunc("/bookings/{bookingID:[0-9]+}/trip/start", trips.Start).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingID:[0-9]+}/trip/complete", trips.Complete).Methods(http.MethodPost)

	api.HandleFunc("/earnings", settlement.GetEarnings).Methods(http.MethodGet)
	api.HandleFunc("/payouts", settlement.RequestPayout).Methods(http.MethodPost)

	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{notificationID:[0-9]+}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	hooks := r.PathPrefix("/webhooks").Subrouter()
	hooks.Use(WebhookAuthMiddleware(webhookSecret))
	hooks.HandleFunc("/payment-confirmed", webhooks.PaymentConfirmed).Methods(http.MethodPost)
	hooks.HandleFunc("/refund-completed", webhooks.RefundCompleted).Methods(http.MethodPost)

	return r
}
