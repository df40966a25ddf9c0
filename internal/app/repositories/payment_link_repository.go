package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// PaymentLinkRepository persists payment links and their status history.
type PaymentLinkRepository interface {
	Create(ctx context.Context, link *models.PaymentLink) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentLink, error)
	List(ctx context.Context, filter models.PaymentLinkFilter) ([]models.PaymentLink, int64, error)
	// ListPendingExpiredAt returns at most limit PENDING links whose expires_at
	// is at or before at, oldest first.
	ListPendingExpiredAt(ctx context.Context, at time.Time, limit int) ([]models.PaymentLink, error)
	// UpdateStatus moves a link from one status to another. It reports false
	// when the link was no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, at time.Time) (bool, error)
	CreateStatusHistory(ctx context.Context, history *models.PaymentStatusHistory) error
}

type GormPaymentLinkRepository struct {
	db *gorm.DB
}

func NewGormPaymentLinkRepository(db *gorm.DB) *GormPaymentLinkRepository {
	return &GormPaymentLinkRepository{db: db}
}

func (r *GormPaymentLinkRepository) Create(ctx context.Context, link *models.PaymentLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *GormPaymentLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentLink, error) {
	var link models.PaymentLink
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *GormPaymentLinkRepository) List(ctx context.Context, filter models.PaymentLinkFilter) ([]models.PaymentLink, int64, error) {
	page := filter.Pagination()

	query := r.db.WithContext(ctx).Model(&models.PaymentLink{})
	if filter.ShopID != "" {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var links []models.PaymentLink
	err := query.
		Order("created_at " + page.Order).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&links).Error
	if err != nil {
		return nil, 0, err
	}

	return links, total, nil
}

func (r *GormPaymentLinkRepository) ListPendingExpiredAt(ctx context.Context, at time.Time, limit int) ([]models.PaymentLink, error) {
	var links []models.PaymentLink
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", models.PaymentStatusPending, at).
		Order("expires_at ASC").
		Limit(limit).
		Find(&links).Error
	return links, err
}

func (r *GormPaymentLinkRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentLink{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormPaymentLinkRepository) CreateStatusHistory(ctx context.Context, history *models.PaymentStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}
