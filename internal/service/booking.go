package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/logger"
	"dealdesk-backend/internal/repository"
	"dealdesk-backend/internal/security"
)

// publicActorID labels audit entries produced by anonymous link submissions
const publicActorID = "public-link"

type bookingService struct {
	reqRepo       repository.BookingRequestRepository
	linkRepo      repository.PublicLinkRepository
	calendarSvc   CalendarService
	emailSvc      EmailService
	noteRepo      repository.NotificationRepository
	auditRepo     repository.AuditLogRepository
	tokenMgr      security.TokenManager
	baseURL       string
	operatorInbox string
}

func NewBookingService(
	reqRepo repository.BookingRequestRepository,
	linkRepo repository.PublicLinkRepository,
	calendarSvc CalendarService,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
	auditRepo repository.AuditLogRepository,
	tokenMgr security.TokenManager,
	baseURL string,
	operatorInbox string,
) BookingService {
	return &bookingService{
		reqRepo:       reqRepo,
		linkRepo:      linkRepo,
		calendarSvc:   calendarSvc,
		emailSvc:      emailSvc,
		noteRepo:      noteRepo,
		auditRepo:     auditRepo,
		tokenMgr:      tokenMgr,
		baseURL:       baseURL,
		operatorInbox: operatorInbox,
	}
}

func validateForm(form SubmissionForm) error {
	if strings.TrimSpace(form.MerchantName) == "" {
		return domain.NewValidationError("merchant_name", "is required")
	}
	if !strings.Contains(form.ContactEmail, "@") {
		return domain.NewValidationError("contact_email", "must be a valid email address")
	}
	if len(form.PricingOptions) == 0 {
		return domain.NewValidationError("pricing_options", "at least one option is required")
	}
	for i, opt := range form.PricingOptions {
		if strings.TrimSpace(opt.Title) == "" {
			return domain.NewValidationError(fmt.Sprintf("pricing_options[%d].title", i), "is required")
		}
		if domain.TitleEmbedsDisplaySeparator(opt.Title) {
			return domain.NewValidationError(fmt.Sprintf("pricing_options[%d].title", i), `must not contain "#<number> - "`)
		}
		if opt.PriceCents <= 0 {
			return domain.NewValidationError(fmt.Sprintf("pricing_options[%d].price_cents", i), "must be positive")
		}
	}
	if _, _, err := domain.ValidateDateRange(form.StartDate, form.EndDate); err != nil {
		return err
	}
	return nil
}

func requestFromForm(form SubmissionForm) *domain.BookingRequest {
	return &domain.BookingRequest{
		MerchantName:   strings.TrimSpace(form.MerchantName),
		ContactEmail:   form.ContactEmail,
		ContactPhone:   form.ContactPhone,
		PricingOptions: form.PricingOptions,
		StartDate:      form.StartDate,
		EndDate:        form.EndDate,
		Description:    form.Description,
		Category:       form.Category,
		Status:         domain.BookingStatusSubmitted,
	}
}

func (s *bookingService) SubmitViaPublicLink(ctx context.Context, token string, form SubmissionForm) (*domain.BookingRequest, error) {
	link, err := s.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := link.Check(time.Now()); err != nil {
		return nil, err
	}

	if err := validateForm(form); err != nil {
		return nil, err
	}

	req := requestFromForm(form)
	// Creation and link consumption commit together; a concurrent submission
	// on the same link loses the CAS and rolls back its request
	if err := s.reqRepo.CreateFromPublicLink(ctx, req, token); err != nil {
		return nil, err
	}

	s.afterSubmission(ctx, req, domain.Actor{ID: publicActorID})
	return req, nil
}

func (s *bookingService) SubmitInternal(ctx context.Context, actor domain.Actor, form SubmissionForm) (*domain.BookingRequest, error) {
	if !actor.CanSubmitRequests() {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	req := requestFromForm(form)
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.afterSubmission(ctx, req, actor)
	return req, nil
}

// afterSubmission emits the side effects shared by both submission paths:
// audit entry, merchant receipt, and the operator review email carrying the
// signed approve/reject links
func (s *bookingService) afterSubmission(ctx context.Context, req *domain.BookingRequest, actor domain.Actor) {
	displayName := req.DisplayName()

	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "submit_booking_request",
		EntityType: domain.AuditEntityBookingRequest,
		EntityID:   req.ID,
		After:      fmt.Sprintf("status=%s", req.Status),
	})

	if err := s.emailSvc.SendSubmissionReceipt(ctx, req.ContactEmail, displayName); err != nil {
		logger.Warn("Failed to send submission receipt", "request_id", req.ID, "error", err)
	}

	approveToken, err := s.tokenMgr.GenerateApprovalToken(req.ID, domain.ApprovalActionApprove)
	if err != nil {
		logger.Error("Failed to mint approval token", "request_id", req.ID, "error", err)
		return
	}
	rejectToken, err := s.tokenMgr.GenerateApprovalToken(req.ID, domain.ApprovalActionReject)
	if err != nil {
		logger.Error("Failed to mint rejection token", "request_id", req.ID, "error", err)
		return
	}
	approveURL := s.decisionURL(approveToken)
	rejectURL := s.decisionURL(rejectToken)

	if err := s.emailSvc.SendApprovalRequest(ctx, s.operatorInbox, displayName, approveURL, rejectURL); err != nil {
		logger.Warn("Failed to send approval request email", "request_id", req.ID, "error", err)
	}

	_ = s.noteRepo.Create(ctx, &domain.Notification{
		Recipient: s.operatorInbox,
		Title:     "New Booking Request",
		Message:   fmt.Sprintf("%s is awaiting review", displayName),
		Attributes: map[string]string{
			"type":       "BOOKING_SUBMITTED",
			"request_id": fmt.Sprintf("%d", req.ID),
		},
	})
}

func (s *bookingService) decisionURL(token string) string {
	return fmt.Sprintf("%s/booking-requests/decision?token=%s", s.baseURL, token)
}

func (s *bookingService) RedeemApprovalToken(ctx context.Context, token, reason string) (*DecisionOutcome, error) {
	claims, err := s.tokenMgr.ValidateApprovalToken(token)
	if err != nil {
		// Expired, tampered and malformed all collapse externally; the
		// distinct reason stays in the log
		logger.Info("Approval token rejected", "reason", err)
		return nil, domain.ErrTokenInvalid
	}

	req, err := s.reqRepo.GetByID(ctx, claims.BookingRequestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	next, err := domain.ApplyDecision(req.Status, claims.Action)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyResolved) {
			return s.alreadyResolvedOutcome(req, claims.Action), nil
		}
		return nil, err
	}

	// CAS against SUBMITTED serializes concurrent redeems; the loser takes
	// the no-op path with zero additional side effects
	if err := s.reqRepo.TransitionStatus(ctx, req.ID, domain.BookingStatusSubmitted, next); err != nil {
		if errors.Is(err, domain.ErrAlreadyResolved) {
			current, getErr := s.reqRepo.GetByID(ctx, req.ID)
			if getErr != nil {
				current = req
			}
			return s.alreadyResolvedOutcome(current, claims.Action), nil
		}
		return nil, err
	}
	req.Status = next

	if next == domain.BookingStatusRejected && reason != "" {
		if err := s.reqRepo.SetRejectionReason(ctx, req.ID, reason); err != nil {
			logger.Warn("Failed to record rejection reason", "request_id", req.ID, "error", err)
		} else {
			req.RejectionReason = reason
		}
	}

	displayName := req.DisplayName()
	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    "approval-link",
		Action:     fmt.Sprintf("decision_%s", claims.Action),
		EntityType: domain.AuditEntityBookingRequest,
		EntityID:   req.ID,
		Before:     fmt.Sprintf("status=%s", domain.BookingStatusSubmitted),
		After:      fmt.Sprintf("status=%s", next),
	})

	approved := claims.Action == domain.ApprovalActionApprove
	if err := s.emailSvc.SendDecisionNotification(ctx, req.ContactEmail, displayName, approved, req.RejectionReason); err != nil {
		logger.Warn("Failed to send decision notification", "request_id", req.ID, "error", err)
	}

	outcome := &DecisionOutcome{
		BookingRequestID: req.ID,
		Action:           claims.Action,
		Applied:          true,
		Status:           next,
	}

	if approved {
		if err := s.scheduleApproved(ctx, req, outcome); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

func (s *bookingService) alreadyResolvedOutcome(req *domain.BookingRequest, action domain.ApprovalAction) *DecisionOutcome {
	return &DecisionOutcome{
		BookingRequestID: req.ID,
		Action:           action,
		Applied:          false,
		Status:           req.Status,
		NeedsResolution:  req.NeedsResolution,
		ReasonCode:       domain.ReasonAlreadyResolved,
	}
}

// scheduleApproved tries to place a freshly approved request on the
// calendar. Conflicts park the request in approved/needs_resolution for a
// human; only storage faults propagate.
func (s *bookingService) scheduleApproved(ctx context.Context, req *domain.BookingRequest, outcome *DecisionOutcome) error {
	displayName := req.DisplayName()

	event, err := s.calendarSvc.Schedule(ctx, req)
	if err != nil {
		var conflict *domain.SchedulingConflictError
		if errors.As(err, &conflict) {
			if err := s.reqRepo.SetNeedsResolution(ctx, req.ID, true); err != nil {
				return err
			}
			outcome.NeedsResolution = true

			if err := s.emailSvc.SendConflictAlert(ctx, s.operatorInbox, displayName, conflict.Conflicts); err != nil {
				logger.Warn("Failed to send conflict alert", "request_id", req.ID, "error", err)
			}
			_ = s.noteRepo.Create(ctx, &domain.Notification{
				Recipient: s.operatorInbox,
				Title:     "Scheduling Conflict",
				Message:   fmt.Sprintf("%s could not be scheduled on %s", displayName, conflict.Resource),
				Attributes: map[string]string{
					"type":       "SCHEDULING_CONFLICT",
					"request_id": fmt.Sprintf("%d", req.ID),
				},
			})
			return nil
		}
		// A storage fault leaves an approved request with no event. Flag it
		// so the resolution sweep surfaces it; a replayed token would only
		// hit the already-resolved no-op path.
		s.flagForResolution(ctx, req.ID)
		return err
	}

	if err := s.reqRepo.TransitionStatus(ctx, req.ID, domain.BookingStatusApproved, domain.BookingStatusBooked); err != nil {
		if !errors.Is(err, domain.ErrAlreadyResolved) {
			s.flagForResolution(ctx, req.ID)
			return err
		}
		logger.Warn("Request left approved state during scheduling", "request_id", req.ID)
		return nil
	}
	outcome.Status = domain.BookingStatusBooked

	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    "scheduler",
		Action:     "schedule_event",
		EntityType: domain.AuditEntityCalendarEvent,
		EntityID:   event.ID,
		After:      fmt.Sprintf("resource=%s start=%s end=%s", event.Resource, event.StartAt.Format(time.RFC3339), event.EndAt.Format(time.RFC3339)),
	})
	return nil
}

// flagForResolution is the best-effort parking for requests stranded by a
// fault after their decision already committed; the resolution sweep also
// finds approved requests lacking an event, so a failure here only delays
// discovery
func (s *bookingService) flagForResolution(ctx context.Context, requestID int32) {
	if err := s.reqRepo.SetNeedsResolution(ctx, requestID, true); err != nil {
		logger.Error("Failed to flag request for resolution", "request_id", requestID, "error", err)
	}
}

func (s *bookingService) CancelBooking(ctx context.Context, actor domain.Actor, requestID int32, reason string) error {
	if !actor.CanCancelBookings() {
		return domain.ErrPermissionDenied
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != domain.BookingStatusBooked {
		return domain.ErrAlreadyResolved
	}

	// Free the slot before flipping the status. If the flip then fails the
	// request stays BOOKED and a retry skips the already-cancelled event and
	// finishes the flip; the reverse order would leave a CANCELLED request
	// holding its slot with no way to resume.
	event, err := s.calendarSvc.EventForRequest(ctx, requestID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if event != nil {
		if err := s.calendarSvc.CancelEvent(ctx, event.ID); err != nil {
			return err
		}
	}

	if err := s.reqRepo.TransitionStatus(ctx, requestID, domain.BookingStatusBooked, domain.BookingStatusCancelled); err != nil {
		return err
	}

	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "cancel_booking",
		EntityType: domain.AuditEntityBookingRequest,
		EntityID:   requestID,
		Before:     fmt.Sprintf("status=%s", domain.BookingStatusBooked),
		After:      fmt.Sprintf("status=%s reason=%s", domain.BookingStatusCancelled, reason),
	})

	if err := s.emailSvc.SendCancellationNotification(ctx, req.ContactEmail, req.DisplayName(), reason); err != nil {
		logger.Warn("Failed to send cancellation notification", "request_id", requestID, "error", err)
	}
	return nil
}

func (s *bookingService) EditPending(ctx context.Context, actor domain.Actor, requestID int32, edits EditForm) (*domain.BookingRequest, error) {
	if !actor.CanEditPendingRequests() {
		return nil, domain.ErrPermissionDenied
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.BookingStatusSubmitted {
		return nil, domain.ErrAlreadyResolved
	}

	before := fmt.Sprintf("start=%s end=%s description=%q", req.StartDate, req.EndDate, req.Description)

	if edits.ContactEmail != nil {
		req.ContactEmail = *edits.ContactEmail
	}
	if edits.ContactPhone != nil {
		req.ContactPhone = *edits.ContactPhone
	}
	if edits.PricingOptions != nil {
		req.PricingOptions = *edits.PricingOptions
	}
	if edits.StartDate != nil {
		req.StartDate = *edits.StartDate
	}
	if edits.EndDate != nil {
		req.EndDate = *edits.EndDate
	}
	if edits.Description != nil {
		req.Description = *edits.Description
	}
	if edits.Category != nil {
		req.Category = *edits.Category
	}

	if err := validateForm(SubmissionForm{
		MerchantName:   req.MerchantName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		PricingOptions: req.PricingOptions,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Description:    req.Description,
		Category:       req.Category,
	}); err != nil {
		return nil, err
	}

	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "edit_pending_request",
		EntityType: domain.AuditEntityBookingRequest,
		EntityID:   requestID,
		Before:     before,
		After:      fmt.Sprintf("start=%s end=%s description=%q", req.StartDate, req.EndDate, req.Description),
	})
	return req, nil
}

func (s *bookingService) Reschedule(ctx context.Context, actor domain.Actor, requestID int32, startDate, endDate string) (*domain.CalendarEvent, error) {
	if !actor.CanReschedule() {
		return nil, domain.ErrPermissionDenied
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	wasBooked := req.Status == domain.BookingStatusBooked
	conflicted := req.Status == domain.BookingStatusApproved && req.NeedsResolution
	if !wasBooked && !conflicted {
		return nil, domain.ErrAlreadyResolved
	}

	if _, _, err := domain.ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	// Free the current slot before probing the new one; a conflicted
	// reschedule parks the request back in approved/needs_resolution
	existing, err := s.calendarSvc.EventForRequest(ctx, requestID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := s.calendarSvc.CancelEvent(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	before := fmt.Sprintf("start=%s end=%s", req.StartDate, req.EndDate)
	req.StartDate = startDate
	req.EndDate = endDate
	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	event, err := s.calendarSvc.Schedule(ctx, req)
	if err != nil {
		var conflict *domain.SchedulingConflictError
		if errors.As(err, &conflict) {
			if wasBooked {
				if casErr := s.reqRepo.TransitionStatus(ctx, requestID, domain.BookingStatusBooked, domain.BookingStatusApproved); casErr != nil && !errors.Is(casErr, domain.ErrAlreadyResolved) {
					return nil, casErr
				}
			}
			if setErr := s.reqRepo.SetNeedsResolution(ctx, requestID, true); setErr != nil {
				return nil, setErr
			}
		}
		return nil, err
	}

	if !wasBooked {
		if err := s.reqRepo.TransitionStatus(ctx, requestID, domain.BookingStatusApproved, domain.BookingStatusBooked); err != nil && !errors.Is(err, domain.ErrAlreadyResolved) {
			return nil, err
		}
	}
	if err := s.reqRepo.SetNeedsResolution(ctx, requestID, false); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Append(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     "reschedule_booking",
		EntityType: domain.AuditEntityBookingRequest,
		EntityID:   requestID,
		Before:     before,
		After:      fmt.Sprintf("start=%s end=%s event_id=%d", startDate, endDate, event.ID),
	})
	return event, nil
}

func (s *bookingService) GetRequest(ctx context.Context, requestID int32) (*domain.BookingRequest, error) {
	return s.reqRepo.GetByID(ctx, requestID)
}

func (s *bookingService) ListRequests(ctx context.Context, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	return s.reqRepo.List(ctx, status, page, pageSize)
}
