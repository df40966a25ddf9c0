package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-paylink/internal/app/errors"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/repositories"
	"github.com/sirupsen/logrus"
)

type AuditService struct {
	repo  repositories.PaymentLinkRepository
	clock pkg.Clock
}

func NewAuditService(repo repositories.PaymentLinkRepository, clock pkg.Clock) *AuditService {
	return &AuditService{
		repo:  repo,
		clock: clock,
	}
}

// LogPaymentStatusChange creates a status history entry for a payment link
func (s *AuditService) LogPaymentStatusChange(
	ctx context.Context,
	paymentLinkID uuid.UUID,
	fromStatus, toStatus models.PaymentStatus,
	reason string,
	metadata map[string]interface{},
) error {
	var metadataJSON *string
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		strJSON := string(jsonBytes)
		metadataJSON = &strJSON
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	history := &models.PaymentStatusHistory{
		ID:            uuid.New(),
		PaymentLinkID: paymentLinkID,
		FromStatus:    &fromStatus,
		ToStatus:      toStatus,
		Reason:        reasonPtr,
		Metadata:      metadataJSON,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.repo.CreateStatusHistory(ctx, history); err != nil {
		return errors.NewInternalServerError(err, "Failed to create payment status history")
	}

	logrus.WithFields(logrus.Fields{
		"payment_link_id": paymentLinkID,
		"from":            fromStatus,
		"to":              toStatus,
	}).Info("payment link status changed")

	return nil
}
