package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// HandlePublicSubmit validates and consumes a public link in one step.
// Any invalid, used or expired token gets the same generic failure.
func (h *BookingHandler) HandlePublicSubmit(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeGenericTokenFailure(w, domain.ReasonInvalidLink)
		return
	}

	var form service.SubmissionForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"reason":  domain.ReasonInvalidPayload,
		})
		return
	}

	req, err := h.bookingSvc.SubmitViaPublicLink(r.Context(), token, form)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLinkNotFound),
			errors.Is(err, domain.ErrLinkAlreadyUsed),
			errors.Is(err, domain.ErrLinkExpired):
			writeLinkFailure(w, err)
		default:
			var validationErr *domain.ValidationError
			if errors.As(err, &validationErr) {
				writeError(w, http.StatusBadRequest, validationErr.Error())
				return
			}
			writeServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"request_id":   req.ID,
		"display_name": req.DisplayName(),
	})
}

// HandleDecision verifies an emailed approval token and applies the
// transition. Replays return the already-resolved signal, not an error.
func (h *BookingHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeGenericTokenFailure(w, domain.ReasonInvalidToken)
		return
	}

	outcome, err := h.bookingSvc.RedeemApprovalToken(r.Context(), token, r.URL.Query().Get("reason"))
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			writeGenericTokenFailure(w, domain.ReasonInvalidToken)
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"outcome": outcome,
	})
}

func (h *BookingHandler) HandleInternalSubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	var form service.SubmissionForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	req, err := h.bookingSvc.SubmitInternal(r.Context(), actor, form)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.bookingSvc.GetRequest(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *BookingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	requests, total, err := h.bookingSvc.ListRequests(r.Context(), status, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
	})
}

func (h *BookingHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var edits service.EditForm
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	req, err := h.bookingSvc.EditPending(r.Context(), actor, id, edits)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *BookingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.bookingSvc.CancelBooking(r.Context(), actor, id, body.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *BookingHandler) HandleReschedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	event, err := h.bookingSvc.Reschedule(r.Context(), actor, id, body.StartDate, body.EndDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"event":   event,
	})
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
