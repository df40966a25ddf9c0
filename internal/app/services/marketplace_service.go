package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/safatanc/gsalt-paylink/internal/app/cooldown"
	"github.com/safatanc/gsalt-paylink/internal/app/countdown"
	"github.com/safatanc/gsalt-paylink/internal/app/errors"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

// DefaultRetryAfterSeconds is used when a 429 carries no usable retry hint.
const DefaultRetryAfterSeconds = 60

// NewMarketplaceGate builds the single cooldown shared by every call to the
// marketplace API.
func NewMarketplaceGate(clock pkg.Clock, metrics *infrastructures.Metrics) *cooldown.Gate {
	return cooldown.NewGate(
		cooldown.WithClock(clock),
		cooldown.WithOnChange(func(active bool) {
			if active {
				metrics.CooldownActive.Set(1)
				return
			}
			metrics.CooldownActive.Set(0)
		}),
	)
}

type MarketplaceService struct {
	client        *infrastructures.MarketplaceClient
	gate          *cooldown.Gate
	cache         PaymentCache
	clock         pkg.Clock
	metrics       *infrastructures.Metrics
	paymentConfig infrastructures.PaymentLinkConfig
}

func NewMarketplaceService(
	client *infrastructures.MarketplaceClient,
	gate *cooldown.Gate,
	cache PaymentCache,
	clock pkg.Clock,
	metrics *infrastructures.Metrics,
	paymentConfig infrastructures.PaymentLinkConfig,
) *MarketplaceService {
	if cache == nil {
		cache = noopPaymentCache{}
	}
	if paymentConfig.TTL <= 0 {
		paymentConfig.TTL = countdown.DefaultDuration
	}
	return &MarketplaceService{
		client:        client,
		gate:          gate,
		cache:         cache,
		clock:         clock,
		metrics:       metrics,
		paymentConfig: paymentConfig,
	}
}

// GetPayment retrieves the payment record of a marketplace order
func (s *MarketplaceService) GetPayment(ctx context.Context, orderID string) (*models.MarketplacePayment, error) {
	if orderID == "" {
		return nil, errors.NewBadRequestError("Order ID is required")
	}

	if payment, ok := s.cache.Get(ctx, orderID); ok {
		return payment, nil
	}

	endpoint := fmt.Sprintf("/orders/%s/payment", url.PathEscape(orderID))
	body, err := s.makeMarketplaceRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var payment models.MarketplacePayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, errors.NewBadGatewayError(err, "Failed to parse marketplace response")
	}
	if payment.OrderID == "" {
		payment.OrderID = orderID
	}

	s.cache.Set(ctx, &payment, s.client.Config.CacheTTL)
	return &payment, nil
}

// GetPaymentCountdown returns the payment window of a marketplace order. Only
// a "Pending" payment has an active countdown.
func (s *MarketplaceService) GetPaymentCountdown(ctx context.Context, orderID string) (*models.CountdownResponse, error) {
	payment, err := s.GetPayment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.PaymentCountdown(payment), nil
}

func (s *MarketplaceService) PaymentCountdown(payment *models.MarketplacePayment) *models.CountdownResponse {
	resp := buildCountdown(
		string(payment.Status),
		payment.Status == models.MarketplacePaymentPending,
		payment.CreatedAt,
		s.paymentConfig.TTL,
		s.clock.Now(),
	)
	if payment.Status == models.MarketplacePaymentExpired {
		resp.Expired = true
	}
	return resp
}

func (s *MarketplaceService) GetCooldownState() models.CooldownState {
	state := s.gate.State(s.clock.Now())
	resp := models.CooldownState{
		Active:           state.Active,
		Permitted:        state.Permitted,
		RemainingSeconds: state.RemainingSeconds,
	}
	if state.Active {
		endsAt := state.CooldownEndsAt
		resp.CooldownEndsAt = &endsAt
	}
	return resp
}

func (s *MarketplaceService) ResetCooldown() {
	s.gate.Reset()
	logrus.Info("marketplace cooldown reset")
}

func (s *MarketplaceService) makeMarketplaceRequest(ctx context.Context, method, endpoint string) ([]byte, error) {
	now := s.clock.Now()
	if !s.gate.IsPermitted(now) {
		return nil, errors.NewTooManyRequestsError("Marketplace API is rate limited, retry later", s.gate.RemainingSeconds(now))
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.GetFullURL(endpoint), nil)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create HTTP request")
	}

	req.Header.Set("Accept", "application/json")
	if auth := s.client.GetAuthHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.NewBadGatewayError(err, "Failed to make request to marketplace API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewBadGatewayError(err, "Failed to read marketplace response")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := retryAfterSeconds(resp.Header.Get("Retry-After"), respBody, s.clock)
		s.gate.Trigger(retryAfter)
		if s.metrics != nil {
			s.metrics.CooldownTriggers.Inc()
		}
		logrus.WithFields(logrus.Fields{
			"endpoint":    endpoint,
			"retry_after": retryAfter,
		}).Warn("marketplace API rate limited, cooling down")
		return nil, errors.NewTooManyRequestsError("Marketplace API is rate limited, retry later", retryAfter)
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NewNotFoundError("Marketplace order payment not found")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.NewBadGatewayError(fmt.Errorf("marketplace API error: status %d, body: %s", resp.StatusCode, string(respBody)), "Marketplace API request failed")
	}

	return respBody, nil
}

// retryAfterSeconds prefers the Retry-After header, then a retry_after field
// in the JSON body, then DefaultRetryAfterSeconds.
func retryAfterSeconds(header string, body []byte, clock pkg.Clock) int {
	if seconds, ok := pkg.ParseRetryAfter(header, clock.Now()); ok {
		return seconds
	}

	var errorResp models.MarketplaceErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.RetryAfter != nil && *errorResp.RetryAfter >= 0 {
		return *errorResp.RetryAfter
	}

	return DefaultRetryAfterSeconds
}
