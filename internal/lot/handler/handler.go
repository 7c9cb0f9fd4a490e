package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/auth"
	"github.com/gasfresco/reservation-service/internal/lot"
	"github.com/gasfresco/reservation-service/internal/lot/dto"
	"github.com/gasfresco/reservation-service/pkg/i18n"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

type LotHandler struct {
	uc     lot.UseCase
	logger logger.ZapLogger
}

func NewLotHandler(uc lot.UseCase, log logger.ZapLogger) *LotHandler {
	return &LotHandler{uc: uc, logger: log}
}

type lotRequest struct {
	ProductID     string  `json:"product_id"`
	DeliveryDate  string  `json:"delivery_date"` // YYYY-MM-DD
	UnitOfMeasure string  `json:"unit_of_measure"`
	TotalQuantity int     `json:"total"`
	UnitPrice     float64 `json:"unit_price"`
	Suspended     bool    `json:"suspended"`
}

func (req *lotRequest) deliveryDate() (time.Time, error) {
	return time.Parse("2006-01-02", req.DeliveryDate)
}

func (h *LotHandler) Create(c *fiber.Ctx) error {
	var req lotRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}
	date, err := req.deliveryDate()
	if err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	l, err := h.uc.CreateLot(c.Context(), &dto.CreateLotInput{
		ProductID:     req.ProductID,
		DeliveryDate:  date,
		UnitOfMeasure: req.UnitOfMeasure,
		TotalQuantity: req.TotalQuantity,
		UnitPrice:     req.UnitPrice,
		Suspended:     req.Suspended,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": i18n.T(auth.Lang(c), "lot.saved"),
		"lot":     l,
	})
}

func (h *LotHandler) Update(c *fiber.Ctx) error {
	var req lotRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}
	date, err := req.deliveryDate()
	if err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	l, err := h.uc.UpdateLot(c.Context(), &dto.UpdateLotInput{
		ID:            c.Params("id"),
		ProductID:     req.ProductID,
		DeliveryDate:  date,
		UnitOfMeasure: req.UnitOfMeasure,
		TotalQuantity: req.TotalQuantity,
		UnitPrice:     req.UnitPrice,
		Suspended:     req.Suspended,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": i18n.T(auth.Lang(c), "lot.saved"),
		"lot":     l,
	})
}

func (h *LotHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteLot(c.Context(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": i18n.T(auth.Lang(c), "lot.deleted"),
	})
}

func (h *LotHandler) Get(c *fiber.Ctx) error {
	l, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(l)
}

func (h *LotHandler) List(c *fiber.Ctx) error {
	order := c.Query("order", "asc")
	if order != "asc" && order != "desc" {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	views, err := h.uc.ListLots(c.Context(), &dto.LotFilters{
		ProductID:        c.Query("product_id"),
		Order:            order,
		IncludeSuspended: auth.IsAdmin(c),
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"lots": views})
}

func respondMessage(c *fiber.Ctx, status int, messageID string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": i18n.T(auth.Lang(c), messageID),
	})
}

func (h *LotHandler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, lot.ErrNotFound):
		return respondMessage(c, fiber.StatusNotFound, "lot.not_found")
	case errors.Is(err, lot.ErrProductNotFound):
		return respondMessage(c, fiber.StatusNotFound, "product.not_found")
	case errors.Is(err, lot.ErrInvalidLot):
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	case errors.Is(err, lot.ErrLotHasReservations):
		return respondMessage(c, fiber.StatusConflict, "lot.has_reservations")
	case errors.Is(err, lot.ErrQuantityBelowCommitted):
		return respondMessage(c, fiber.StatusConflict, "lot.below_committed")
	default:
		h.logger.Error("unhandled lot error", zap.Error(err))
		return respondMessage(c, fiber.StatusInternalServerError, "service.unavailable")
	}
}
