package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketplacePaymentStatus is the payment status reported by the remote
// marketplace API. Values are case sensitive.
type MarketplacePaymentStatus string

const (
	MarketplacePaymentPending   MarketplacePaymentStatus = "Pending"
	MarketplacePaymentPaid      MarketplacePaymentStatus = "Paid"
	MarketplacePaymentExpired   MarketplacePaymentStatus = "Expired"
	MarketplacePaymentCancelled MarketplacePaymentStatus = "Cancelled"
)

type MarketplacePayment struct {
	OrderID    string                   `json:"order_id"`
	Status     MarketplacePaymentStatus `json:"status"`
	Amount     decimal.Decimal          `json:"amount"`
	Currency   string                   `json:"currency"`
	PaymentURL *string                  `json:"payment_url,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

// MarketplaceErrorResponse is the error body of the remote API. RetryAfter is
// only present on 429 responses.
type MarketplaceErrorResponse struct {
	Message    string `json:"message"`
	RetryAfter *int   `json:"retry_after,omitempty"`
}
