package http

import (
	"net/http"

	"dealdesk-backend/internal/jobs"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Booking      *BookingHandler
	Link         *LinkHandler
	Calendar     *CalendarHandler
	Notification *NotificationHandler
	JobRunner    *jobs.JobRunner
	SweepSecret  string
}

// RegisterRoutes wires the public, decision and internal route groups
func RegisterRoutes(r *mux.Router, h *Handlers) {
	// Public, unauthenticated surface
	r.HandleFunc("/public/booking-requests", h.Booking.HandlePublicSubmit).Methods(http.MethodPost)
	r.HandleFunc("/public/booking-requests/validate", h.Link.HandleValidate).Methods(http.MethodGet)
	r.HandleFunc("/booking-requests/decision", h.Booking.HandleDecision).Methods(http.MethodGet)

	// Scheduled-sweep trigger, guarded by the bearer secret. Registered
	// before the actor-scoped subrouter so the /internal prefix does not
	// swallow it.
	sweep := r.PathPrefix("/internal/jobs").Subrouter()
	sweep.Use(SweepAuthMiddleware(h.SweepSecret))
	sweep.HandleFunc("/sweep", func(w http.ResponseWriter, r *http.Request) {
		h.JobRunner.RunAllSweepJobs()
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}).Methods(http.MethodPost)

	// Internal surface behind the auth proxy
	internal := r.PathPrefix("/internal").Subrouter()
	internal.Use(ActorMiddleware)
	internal.HandleFunc("/links", h.Link.HandleIssue).Methods(http.MethodPost)
	internal.HandleFunc("/booking-requests", h.Booking.HandleInternalSubmit).Methods(http.MethodPost)
	internal.HandleFunc("/booking-requests", h.Booking.HandleList).Methods(http.MethodGet)
	internal.HandleFunc("/booking-requests/{id:[0-9]+}", h.Booking.HandleGet).Methods(http.MethodGet)
	internal.HandleFunc("/booking-requests/{id:[0-9]+}", h.Booking.HandleEdit).Methods(http.MethodPatch)
	internal.HandleFunc("/booking-requests/{id:[0-9]+}/cancel", h.Booking.HandleCancel).Methods(http.MethodPost)
	internal.HandleFunc("/booking-requests/{id:[0-9]+}/reschedule", h.Booking.HandleReschedule).Methods(http.MethodPost)
	internal.HandleFunc("/calendar", h.Calendar.HandleList).Methods(http.MethodGet)
	internal.HandleFunc("/notifications", h.Notification.HandleList).Methods(http.MethodGet)
	internal.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.HandleMarkRead).Methods(http.MethodPost)
}
