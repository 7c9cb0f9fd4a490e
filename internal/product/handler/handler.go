package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/auth"
	"github.com/gasfresco/reservation-service/internal/product"
	"github.com/gasfresco/reservation-service/internal/product/dto"
	"github.com/gasfresco/reservation-service/pkg/i18n"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

type productRequest struct {
	Name       string `json:"name"`
	ProducerID string `json:"producer_id"`
	ImageURL   string `json:"image_url"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	p, err := h.uc.CreateProduct(c.Context(), &dto.CreateProductInput{
		Name:       req.Name,
		ProducerID: req.ProducerID,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": i18n.T(auth.Lang(c), "product.saved"),
		"product": p,
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	p, err := h.uc.UpdateProduct(c.Context(), &dto.UpdateProductInput{
		ID:         c.Params("id"),
		Name:       req.Name,
		ProducerID: req.ProducerID,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": i18n.T(auth.Lang(c), "product.saved"),
		"product": p,
	})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.ListProducts(c.Context(), &dto.ProductFilters{
		ProducerID:  c.Query("producer_id"),
		SearchQuery: c.Query("q"),
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"products": products})
}

func respondMessage(c *fiber.Ctx, status int, messageID string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": i18n.T(auth.Lang(c), messageID),
	})
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return respondMessage(c, fiber.StatusNotFound, "product.not_found")
	case errors.Is(err, product.ErrProducerNotFound):
		return respondMessage(c, fiber.StatusNotFound, "producer.not_found")
	case errors.Is(err, product.ErrInvalidProduct):
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	default:
		h.logger.Error("unhandled product error", zap.Error(err))
		return respondMessage(c, fiber.StatusInternalServerError, "service.unavailable")
	}
}
