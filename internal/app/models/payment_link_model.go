package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusExpired   PaymentStatus = "EXPIRED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsFinal reports whether no further transition is allowed.
func (s PaymentStatus) IsFinal() bool {
	return s != PaymentStatusPending
}

type PaymentLink struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(64);not null;index"`
	ShopID      string          `json:"shop_id" gorm:"type:varchar(64);not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency    string          `json:"currency" gorm:"type:varchar(3);not null;default:'IDR'"`
	Status      PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentURL  *string         `json:"payment_url,omitempty" gorm:"type:text"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"type:timestamp with time zone;not null"`
	ExpiresAt   time.Time       `json:"expires_at" gorm:"type:timestamp with time zone;not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"type:timestamp with time zone;autoUpdateTime"`
}

// PaymentStatusHistory records every status transition of a payment link.
type PaymentStatusHistory struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentLinkID uuid.UUID      `json:"payment_link_id" gorm:"type:uuid;not null;index"`
	FromStatus    *PaymentStatus `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus      PaymentStatus  `json:"to_status" gorm:"type:varchar(20);not null"`
	Reason        *string        `json:"reason" gorm:"type:text"`
	Metadata      *string        `json:"metadata" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type PaymentLinkCreateRequest struct {
	OrderID     string          `json:"order_id" validate:"required,max=64"`
	ShopID      string          `json:"shop_id" validate:"required,max=64"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	PaymentURL  *string         `json:"payment_url,omitempty" validate:"omitempty,url,max=2048"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

type PaymentLinkStatusUpdateRequest struct {
	Status PaymentStatus `json:"status" validate:"required,oneof=COMPLETED FAILED CANCELLED"`
	Reason *string       `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type PaymentLinkFilter struct {
	Page   int           `query:"page" validate:"omitempty,min=1"`
	Limit  int           `query:"limit" validate:"omitempty,min=1,max=100"`
	Order  string        `query:"order" validate:"omitempty,oneof=asc desc"`
	ShopID string        `query:"shop_id" validate:"omitempty,max=64"`
	Status PaymentStatus `query:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED EXPIRED CANCELLED"`
}

func (f PaymentLinkFilter) Pagination() PaginationRequest {
	p := PaginationRequest{Page: f.Page, Limit: f.Limit, Order: f.Order}
	p.Normalize()
	return p
}
