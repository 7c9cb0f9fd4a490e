package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/auth"
	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/internal/reservation/dto"
	"github.com/gasfresco/reservation-service/pkg/i18n"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

type ReservationHandler struct {
	uc     reservation.UseCase
	logger logger.ZapLogger
}

func NewReservationHandler(uc reservation.UseCase, log logger.ZapLogger) *ReservationHandler {
	return &ReservationHandler{uc: uc, logger: log}
}

type reserveRequest struct {
	Quantity int `json:"quantity"`
}

func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req reserveRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}
	if req.Quantity < 1 {
		return respondMessage(c, fiber.StatusBadRequest, "reservation.invalid_quantity")
	}

	res, err := h.uc.Create(c.Context(), &dto.CreateReservationInput{
		LotID:    c.Params("lot_id"),
		UserID:   auth.UserID(c),
		Quantity: req.Quantity,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     i18n.T(auth.Lang(c), "reservation.created"),
		"reservation": mapReservation(res),
	})
}

func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	var req reserveRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, "request.invalid")
	}
	if req.Quantity < 1 {
		return respondMessage(c, fiber.StatusBadRequest, "reservation.invalid_quantity")
	}

	res, err := h.uc.Update(c.Context(), &dto.UpdateReservationInput{
		ReservationID:    c.Params("id"),
		RequestingUserID: auth.UserID(c),
		Quantity:         req.Quantity,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     i18n.T(auth.Lang(c), "reservation.updated"),
		"reservation": mapReservation(res),
	})
}

func (h *ReservationHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.Delete(c.Context(), &dto.DeleteReservationInput{
		ReservationID:    c.Params("id"),
		RequestingUserID: auth.UserID(c),
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": i18n.T(auth.Lang(c), "reservation.deleted"),
	})
}

func (h *ReservationHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.ListForUser(c.Context(), auth.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}

	views := make([]dto.ReservationView, len(items))
	for i, res := range items {
		views[i] = *mapReservation(&res)
	}
	return c.JSON(fiber.Map{"reservations": views})
}

func (h *ReservationHandler) LotAvailability(c *fiber.Ctx) error {
	availability, err := h.uc.LotAvailability(c.Context(), c.Params("lot_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(availability)
}

func mapReservation(res *model.Reservation) *dto.ReservationView {
	return &dto.ReservationView{
		ID:       res.ID,
		LotID:    res.LotID,
		UserID:   res.UserID,
		Quantity: res.Quantity,
	}
}

func respondMessage(c *fiber.Ctx, status int, messageID string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": i18n.T(auth.Lang(c), messageID),
	})
}

func (h *ReservationHandler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		return respondMessage(c, fiber.StatusNotFound, "reservation.not_found")
	case errors.Is(err, reservation.ErrUnauthorized):
		return respondMessage(c, fiber.StatusForbidden, "reservation.unauthorized")
	case errors.Is(err, reservation.ErrInvalidQuantity):
		return respondMessage(c, fiber.StatusBadRequest, "reservation.invalid_quantity")
	case errors.Is(err, reservation.ErrInsufficientQuantity):
		return respondMessage(c, fiber.StatusConflict, "reservation.insufficient")
	case errors.Is(err, reservation.ErrDuplicateReservation):
		return respondMessage(c, fiber.StatusConflict, "reservation.duplicate")
	case errors.Is(err, reservation.ErrCapacityExceeded):
		return respondMessage(c, fiber.StatusConflict, "reservation.conflict_retry")
	case errors.Is(err, reservation.ErrLotSuspended):
		return respondMessage(c, fiber.StatusConflict, "lot.suspended")
	case errors.Is(err, reservation.ErrDependencyUnavailable):
		return respondMessage(c, fiber.StatusServiceUnavailable, "service.unavailable")
	default:
		h.logger.Error("unhandled reservation error", zap.Error(err))
		return respondMessage(c, fiber.StatusInternalServerError, "service.unavailable")
	}
}
