package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/auth"
	"github.com/gasfresco/reservation-service/internal/producer"
	"github.com/gasfresco/reservation-service/internal/producer/dto"
	"github.com/gasfresco/reservation-service/pkg/i18n"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

type ProducerHandler struct {
	uc     producer.UseCase
	logger logger.ZapLogger
}

func NewProducerHandler(uc producer.UseCase, log logger.ZapLogger) *ProducerHandler {
	return &ProducerHandler{uc: uc, logger: log}
}

type producerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

func (h *ProducerHandler) Create(c *fiber.Ctx) error {
	var req producerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	p, err := h.uc.CreateProducer(c.Context(), &dto.CreateProducerInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  i18n.T(auth.Lang(c), "producer.saved"),
		"producer": p,
	})
}

func (h *ProducerHandler) Update(c *fiber.Ctx) error {
	var req producerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}

	p, err := h.uc.UpdateProducer(c.Context(), &dto.UpdateProducerInput{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  i18n.T(auth.Lang(c), "producer.saved"),
		"producer": p,
	})
}

func (h *ProducerHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.GetProducer(c.Context(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(p)
}

func (h *ProducerHandler) List(c *fiber.Ctx) error {
	producers, err := h.uc.ListProducers(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"producers": producers})
}

func respondMessage(c *fiber.Ctx, status int, messageID string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": i18n.T(auth.Lang(c), messageID),
	})
}

func (h *ProducerHandler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, producer.ErrNotFound):
		return respondMessage(c, fiber.StatusNotFound, "producer.not_found")
	case errors.Is(err, producer.ErrInvalidProducer), errors.Is(err, producer.ErrNameTaken):
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	default:
		h.logger.Error("unhandled producer error", zap.Error(err))
		return respondMessage(c, fiber.StatusInternalServerError, "service.unavailable")
	}
}
