package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/sirupsen/logrus"
)

// PaymentCache holds remote payment records for a short time so repeated
// polling of the same order does not reach the marketplace API.
type PaymentCache interface {
	Get(ctx context.Context, orderID string) (*models.MarketplacePayment, bool)
	Set(ctx context.Context, payment *models.MarketplacePayment, ttl time.Duration)
}

type RedisPaymentCache struct {
	redis     *redis.Client
	keyPrefix string
}

func NewRedisPaymentCache(redis *redis.Client, keyPrefix string) *RedisPaymentCache {
	return &RedisPaymentCache{
		redis:     redis,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisPaymentCache) formatKey(orderID string) string {
	return fmt.Sprintf("%s:marketplace:payment:%s", c.keyPrefix, orderID)
}

// Get treats every redis failure as a miss.
func (c *RedisPaymentCache) Get(ctx context.Context, orderID string) (*models.MarketplacePayment, bool) {
	raw, err := c.redis.Get(ctx, c.formatKey(orderID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("order_id", orderID).Warn("payment cache read failed")
		}
		return nil, false
	}

	var payment models.MarketplacePayment
	if err := json.Unmarshal(raw, &payment); err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Warn("payment cache entry is corrupt")
		return nil, false
	}
	return &payment, true
}

func (c *RedisPaymentCache) Set(ctx context.Context, payment *models.MarketplacePayment, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(payment)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.formatKey(payment.OrderID), raw, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("order_id", payment.OrderID).Warn("payment cache write failed")
	}
}

// noopPaymentCache never stores anything.
type noopPaymentCache struct{}

func (noopPaymentCache) Get(context.Context, string) (*models.MarketplacePayment, bool) {
	return nil, false
}

func (noopPaymentCache) Set(context.Context, *models.MarketplacePayment, time.Duration) {}
