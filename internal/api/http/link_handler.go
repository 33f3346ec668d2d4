package http

import (
	"net/http"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/service"
)

type LinkHandler struct {
	linkSvc service.LinkService
}

func NewLinkHandler(linkSvc service.LinkService) *LinkHandler {
	return &LinkHandler{linkSvc: linkSvc}
}

// HandleIssue mints a fresh single-use public submission link
func (h *LinkHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	link, shareURL, err := h.linkSvc.IssueLink(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"share_url":  shareURL,
		"expires_on": link.ExpiresOn,
	})
}

// HandleValidate lets the submission form check its link before rendering.
// Used, expired and unknown tokens all produce the same generic failure.
func (h *LinkHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeGenericTokenFailure(w, domain.ReasonInvalidLink)
		return
	}

	link, err := h.linkSvc.ValidateLink(r.Context(), token)
	if err != nil {
		writeLinkFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"expires_on": link.ExpiresOn,
	})
}
