package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/services"
)

type MarketplaceHandler struct {
	marketplaceService *services.MarketplaceService
}

func NewMarketplaceHandler(marketplaceService *services.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
	}
}

func (h *MarketplaceHandler) RegisterRoutes(router fiber.Router) {
	marketplaceGroup := router.Group("/marketplace")

	marketplaceGroup.Get("/orders/:id/payment", h.GetOrderPayment)
	marketplaceGroup.Get("/orders/:id/countdown", h.GetOrderCountdown)
	marketplaceGroup.Get("/cooldown", h.GetCooldown)
	marketplaceGroup.Delete("/cooldown", h.ResetCooldown)
}

func (h *MarketplaceHandler) GetOrderPayment(c *fiber.Ctx) error {
	payment, err := h.marketplaceService.GetPayment(c.Context(), c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, payment)
}

func (h *MarketplaceHandler) GetOrderCountdown(c *fiber.Ctx) error {
	countdown, err := h.marketplaceService.GetPaymentCountdown(c.Context(), c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, countdown)
}

func (h *MarketplaceHandler) GetCooldown(c *fiber.Ctx) error {
	return pkg.SuccessResponse(c, h.marketplaceService.GetCooldownState())
}

// ResetCooldown lifts the marketplace cooldown right away
func (h *MarketplaceHandler) ResetCooldown(c *fiber.Ctx) error {
	h.marketplaceService.ResetCooldown()
	return pkg.SuccessResponse(c, h.marketplaceService.GetCooldownState())
}
