package deliveries

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-paylink/internal/app/errors"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
	"github.com/safatanc/gsalt-paylink/internal/app/services"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type PaymentLinkHandler struct {
	paymentLinkService *services.PaymentLinkService
	lifecycle          *pkg.Lifecycle
}

func NewPaymentLinkHandler(paymentLinkService *services.PaymentLinkService, lifecycle *pkg.Lifecycle) *PaymentLinkHandler {
	return &PaymentLinkHandler{
		paymentLinkService: paymentLinkService,
		lifecycle:          lifecycle,
	}
}

func (h *PaymentLinkHandler) RegisterRoutes(router fiber.Router) {
	paymentLinkGroup := router.Group("/payment-links")

	paymentLinkGroup.Post("/", h.CreatePaymentLink)
	paymentLinkGroup.Get("/", h.GetPaymentLinks)
	paymentLinkGroup.Get("/:id", h.GetPaymentLink)
	paymentLinkGroup.Patch("/:id/status", h.UpdatePaymentLinkStatus)
	paymentLinkGroup.Get("/:id/countdown", h.GetCountdown)
	paymentLinkGroup.Get("/:id/countdown/stream", h.StreamCountdown)
}

func (h *PaymentLinkHandler) CreatePaymentLink(c *fiber.Ctx) error {
	var req models.PaymentLinkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	link, err := h.paymentLinkService.CreatePaymentLink(c.Context(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, link)
}

func (h *PaymentLinkHandler) GetPaymentLinks(c *fiber.Ctx) error {
	var filter models.PaymentLinkFilter
	if err := c.QueryParser(&filter); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid query parameters"))
	}

	links, err := h.paymentLinkService.ListPaymentLinks(c.Context(), &filter)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, links)
}

func (h *PaymentLinkHandler) GetPaymentLink(c *fiber.Ctx) error {
	link, err := h.paymentLinkService.GetPaymentLink(c.Context(), c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, link)
}

func (h *PaymentLinkHandler) UpdatePaymentLinkStatus(c *fiber.Ctx) error {
	var req models.PaymentLinkStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	link, err := h.paymentLinkService.UpdatePaymentLinkStatus(c.Context(), c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, link)
}

func (h *PaymentLinkHandler) GetCountdown(c *fiber.Ctx) error {
	countdown, err := h.paymentLinkService.GetCountdown(c.Context(), c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, countdown)
}

// StreamCountdown sends one "tick" server-sent event per tick until the
// countdown stops being active, the client disconnects or the server shuts down.
func (h *PaymentLinkHandler) StreamCountdown(c *fiber.Ctx) error {
	id := c.Params("id")
	// unknown or malformed links get a plain JSON error before streaming starts
	if _, err := h.paymentLinkService.GetCountdown(c.Context(), id); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// the request context is not usable once the handler returned
		ctx, cancel := context.WithCancel(h.lifecycle.Context())
		defer cancel()

		err := h.paymentLinkService.StreamCountdown(ctx, id, func(resp *models.CountdownResponse) error {
			return writeEvent(w, "tick", resp)
		})
		entry := logrus.WithField("payment_link_id", id)
		switch {
		case err == nil:
		case errors.IsStatus(err, fiber.StatusInternalServerError):
			entry.WithError(err).Warn("countdown stream failed")
		default:
			entry.WithError(err).Debug("countdown stream closed")
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}
