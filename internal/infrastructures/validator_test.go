package infrastructures

import (
	"net/http"
	"strings"
	"testing"

	"github.com/safatanc/gsalt-paylink/internal/app/errors"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_PaymentLinkCreateRequest(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.PaymentLinkCreateRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "OrderID is required")
	assert.Contains(t, err.Error(), "ShopID is required")

	err = v.Validate(&models.PaymentLinkCreateRequest{OrderID: strings.Repeat("x", 65), ShopID: "shop-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OrderID must be at most 64 characters")

	assert.NoError(t, v.Validate(&models.PaymentLinkCreateRequest{OrderID: "ord-1", ShopID: "shop-1", Currency: "IDR"}))
}

func TestValidator_StatusUpdate(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.PaymentLinkStatusUpdateRequest{Status: models.PaymentStatusExpired})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status must be one of")

	assert.NoError(t, v.Validate(&models.PaymentLinkStatusUpdateRequest{Status: models.PaymentStatusCompleted}))
}

func TestValidator_Nil(t *testing.T) {
	assert.Error(t, NewValidator().Validate(nil))
}
