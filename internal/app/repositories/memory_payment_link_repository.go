package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
)

// MemoryPaymentLinkRepository keeps links in a map. Used by tests and by local
// runs without a database.
type MemoryPaymentLinkRepository struct {
	mu      sync.RWMutex
	links   map[uuid.UUID]models.PaymentLink
	history []models.PaymentStatusHistory
}

func NewMemoryPaymentLinkRepository() *MemoryPaymentLinkRepository {
	return &MemoryPaymentLinkRepository{links: make(map[uuid.UUID]models.PaymentLink)}
}

func (r *MemoryPaymentLinkRepository) Create(ctx context.Context, link *models.PaymentLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.ID] = *link
	return nil
}

func (r *MemoryPaymentLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.links[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &link, nil
}

func (r *MemoryPaymentLinkRepository) List(ctx context.Context, filter models.PaymentLinkFilter) ([]models.PaymentLink, int64, error) {
	page := filter.Pagination()

	r.mu.RLock()
	matched := make([]models.PaymentLink, 0, len(r.links))
	for _, link := range r.links {
		if filter.ShopID != "" && link.ShopID != filter.ShopID {
			continue
		}
		if filter.Status != "" && link.Status != filter.Status {
			continue
		}
		matched = append(matched, link)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if page.Order == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryPaymentLinkRepository) ListPendingExpiredAt(ctx context.Context, at time.Time, limit int) ([]models.PaymentLink, error) {
	r.mu.RLock()
	var links []models.PaymentLink
	for _, link := range r.links {
		if link.Status == models.PaymentStatusPending && !link.ExpiresAt.After(at) {
			links = append(links, link)
		}
	}
	r.mu.RUnlock()

	sort.Slice(links, func(i, j int) bool { return links[i].ExpiresAt.Before(links[j].ExpiresAt) })
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

func (r *MemoryPaymentLinkRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[id]
	if !ok || link.Status != from {
		return false, nil
	}
	link.Status = to
	link.UpdatedAt = at
	r.links[id] = link
	return true, nil
}

func (r *MemoryPaymentLinkRepository) CreateStatusHistory(ctx context.Context, history *models.PaymentStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	r.history = append(r.history, *history)
	return nil
}

// History returns the recorded transitions of one link, oldest first.
func (r *MemoryPaymentLinkRepository) History(id uuid.UUID) []models.PaymentStatusHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.PaymentStatusHistory
	for _, h := range r.history {
		if h.PaymentLinkID == id {
			out = append(out, h)
		}
	}
	return out
}
