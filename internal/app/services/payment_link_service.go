package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-paylink/internal/app/countdown"
	"github.com/safatanc/gsalt-paylink/internal/app/errors"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/repositories"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultCurrency = "IDR"

type PaymentLinkService struct {
	repo         repositories.PaymentLinkRepository
	validator    *infrastructures.Validator
	auditService *AuditService
	clock        pkg.Clock
	config       infrastructures.PaymentLinkConfig
	metrics      *infrastructures.Metrics
}

func NewPaymentLinkService(
	repo repositories.PaymentLinkRepository,
	validator *infrastructures.Validator,
	auditService *AuditService,
	clock pkg.Clock,
	config infrastructures.PaymentLinkConfig,
	metrics *infrastructures.Metrics,
) *PaymentLinkService {
	if config.TTL <= 0 {
		config.TTL = countdown.DefaultDuration
	}
	return &PaymentLinkService{
		repo:         repo,
		validator:    validator,
		auditService: auditService,
		clock:        clock,
		config:       config,
		metrics:      metrics,
	}
}

// CreatePaymentLink opens a new PENDING link whose window starts now
func (s *PaymentLinkService) CreatePaymentLink(ctx context.Context, req *models.PaymentLinkCreateRequest) (*models.PaymentLink, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, errors.NewBadRequestError("Amount must be greater than 0")
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := s.clock.Now()
	link := &models.PaymentLink{
		ID:          uuid.New(),
		OrderID:     req.OrderID,
		ShopID:      req.ShopID,
		Amount:      req.Amount,
		Currency:    currency,
		Status:      models.PaymentStatusPending,
		PaymentURL:  req.PaymentURL,
		Description: req.Description,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.config.TTL),
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create payment link")
	}

	logrus.WithFields(logrus.Fields{
		"payment_link_id": link.ID,
		"order_id":        link.OrderID,
		"expires_at":      link.ExpiresAt,
	}).Info("payment link created")

	return link, nil
}

// GetPaymentLink loads a link, expiring it first if its window has elapsed
func (s *PaymentLinkService) GetPaymentLink(ctx context.Context, id string) (*models.PaymentLink, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid payment link ID format")
	}

	link, err := s.repo.GetByID(ctx, parsedID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrNotFound) {
			return nil, errors.NewNotFoundError("Payment link not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get payment link")
	}

	if _, err := s.ExpireIfElapsed(ctx, link, s.clock.Now()); err != nil {
		return nil, err
	}

	return link, nil
}

func (s *PaymentLinkService) ListPaymentLinks(ctx context.Context, filter *models.PaymentLinkFilter) (*models.Pagination[[]models.PaymentLink], error) {
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}

	links, total, err := s.repo.List(ctx, *filter)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to list payment links")
	}
	if links == nil {
		links = []models.PaymentLink{}
	}

	return models.NewPagination(filter.Pagination(), total, links), nil
}

// UpdatePaymentLinkStatus settles a PENDING link. Links that already left
// PENDING, including ones whose window elapsed, are rejected with 409.
func (s *PaymentLinkService) UpdatePaymentLinkStatus(ctx context.Context, id string, req *models.PaymentLinkStatusUpdateRequest) (*models.PaymentLink, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	link, err := s.GetPaymentLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.Status.IsFinal() {
		return nil, errors.NewConflictError(fmt.Sprintf("Payment link is already %s", link.Status))
	}

	now := s.clock.Now()
	changed, err := s.repo.UpdateStatus(ctx, link.ID, models.PaymentStatusPending, req.Status, now)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update payment link status")
	}
	if !changed {
		return nil, errors.NewConflictError("Payment link status changed concurrently")
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	if err := s.auditService.LogPaymentStatusChange(ctx, link.ID, models.PaymentStatusPending, req.Status, reason, nil); err != nil {
		return nil, err
	}

	link.Status = req.Status
	link.UpdatedAt = now
	return link, nil
}

// GetCountdown returns the countdown of a link. Only PENDING links report an
// active countdown.
func (s *PaymentLinkService) GetCountdown(ctx context.Context, id string) (*models.CountdownResponse, error) {
	link, err := s.GetPaymentLink(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Countdown(link, s.clock.Now()), nil
}

func (s *PaymentLinkService) Countdown(link *models.PaymentLink, now time.Time) *models.CountdownResponse {
	resp := buildCountdown(
		string(link.Status),
		link.Status == models.PaymentStatusPending,
		link.CreatedAt,
		link.ExpiresAt.Sub(link.CreatedAt),
		now,
	)
	if !resp.Active {
		expiresAt := link.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	if link.Status == models.PaymentStatusExpired {
		resp.Expired = true
	}
	return resp
}

// StreamCountdown emits the countdown of a link immediately and then once per
// tick. It returns once the countdown is no longer active, when emit fails
// (the consumer went away) or when ctx is done.
func (s *PaymentLinkService) StreamCountdown(ctx context.Context, id string, emit func(*models.CountdownResponse) error) error {
	tick := s.config.CountdownTick
	if tick <= 0 {
		tick = time.Second
	}

	if s.metrics != nil {
		s.metrics.CountdownStreams.Inc()
		defer s.metrics.CountdownStreams.Dec()
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		resp, err := s.GetCountdown(ctx, id)
		if err != nil {
			return err
		}
		if err := emit(resp); err != nil {
			return err
		}
		if !resp.Active {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ExpireIfElapsed moves a PENDING link to EXPIRED once its window has elapsed
// at now, updating link in place. It reports whether this call expired it.
func (s *PaymentLinkService) ExpireIfElapsed(ctx context.Context, link *models.PaymentLink, now time.Time) (bool, error) {
	if link.Status.IsFinal() {
		return false, nil
	}

	window, err := countdown.NewWindow(link.CreatedAt, link.ExpiresAt.Sub(link.CreatedAt))
	if err == nil && !window.Tick(now).Expired {
		return false, nil
	}

	changed, err := s.repo.UpdateStatus(ctx, link.ID, models.PaymentStatusPending, models.PaymentStatusExpired, now)
	if err != nil {
		return false, errors.NewInternalServerError(err, "Failed to expire payment link")
	}

	// Something else settled it first; reload so the caller sees the winner.
	if !changed {
		fresh, err := s.repo.GetByID(ctx, link.ID)
		if err != nil {
			return false, errors.NewInternalServerError(err, "Failed to reload payment link")
		}
		*link = *fresh
		return false, nil
	}

	link.Status = models.PaymentStatusExpired
	link.UpdatedAt = now
	if s.metrics != nil {
		s.metrics.PaymentLinksExpired.Inc()
	}

	if err := s.auditService.LogPaymentStatusChange(ctx, link.ID, models.PaymentStatusPending, models.PaymentStatusExpired, "payment window elapsed", map[string]interface{}{
		"expires_at": link.ExpiresAt,
	}); err != nil {
		return true, err
	}

	return true, nil
}

// ExpireElapsed expires up to batchSize PENDING links whose window ended at or
// before now and returns how many it expired.
func (s *PaymentLinkService) ExpireElapsed(ctx context.Context, now time.Time, batchSize int) (int, error) {
	links, err := s.repo.ListPendingExpiredAt(ctx, now, batchSize)
	if err != nil {
		return 0, errors.NewInternalServerError(err, "Failed to list elapsed payment links")
	}

	expired := 0
	for i := range links {
		changed, err := s.ExpireIfElapsed(ctx, &links[i], now)
		if err != nil {
			return expired, err
		}
		if changed {
			expired++
		}
	}
	return expired, nil
}
