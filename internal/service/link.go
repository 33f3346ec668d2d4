package service

import (
	"context"
	"fmt"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"
	"dealdesk-backend/internal/security"
)

type linkService struct {
	linkRepo   repository.PublicLinkRepository
	auditRepo  repository.AuditLogRepository
	tokenMgr   security.TokenManager
	baseURL    string
	linkExpiry time.Duration
}

func NewLinkService(
	linkRepo repository.PublicLinkRepository,
	auditRepo repository.AuditLogRepository,
	tokenMgr security.TokenManager,
	baseURL string,
	linkExpiry time.Duration,
) LinkService {
	return &linkService{
		linkRepo:   linkRepo,
		auditRepo:  auditRepo,
		tokenMgr:   tokenMgr,
		baseURL:    baseURL,
		linkExpiry: linkExpiry,
	}
}

func (s *linkService) IssueLink(ctx context.Context, actor domain.Actor) (*domain.PublicLink, string, error) {
	if !actor.CanIssuePublicLinks() {
		return nil, "", domain.ErrPermissionDenied
	}

	token, err := s.tokenMgr.GeneratePublicLinkToken()
	if err != nil {
		return nil, "", err
	}

	expires := time.Now().Add(s.linkExpiry)
	link := &domain.PublicLink{
		Token:     token,
		ExpiresOn: &expires,
		CreatedBy: actor.ID,
	}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, "", err
	}

	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "issue_public_link",
		EntityType: domain.AuditEntityPublicLink,
		EntityID:   link.ID,
		After:      fmt.Sprintf("expires_on=%s", expires.Format(time.RFC3339)),
	})

	shareURL := fmt.Sprintf("%s/public/booking-requests?token=%s", s.baseURL, token)
	return link, shareURL, nil
}

func (s *linkService) ValidateLink(ctx context.Context, token string) (*domain.PublicLink, error) {
	link, err := s.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := link.Check(time.Now()); err != nil {
		return nil, err
	}
	return link, nil
}
