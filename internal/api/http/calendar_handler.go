package http

import (
	"net/http"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/service"
)

type CalendarHandler struct {
	calendarSvc service.CalendarService
}

func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// HandleList returns the scheduled events overlapping the requested window,
// defaulting to the next 90 days
func (h *CalendarHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 90)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}

	var events []domain.CalendarEvent
	var err error
	if resource := r.URL.Query().Get("resource"); resource != "" {
		events, err = h.calendarSvc.ListEventsByResource(r.Context(), resource, from, to)
	} else {
		events, err = h.calendarSvc.ListEvents(r.Context(), from, to)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
