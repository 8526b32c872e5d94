package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-supply-chain/internal/application/dto"
	"github.com/jhoicas/hospital-supply-chain/internal/application/orders"
	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// OrderHandler atiende la interfaz JSON de ingesta de órdenes.
type OrderHandler struct {
	guard *orders.IntakeGuard
	log   *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(guard *orders.IntakeGuard, log *logger.Logger) *OrderHandler {
	return &OrderHandler{guard: guard, log: log}
}

// Receive ingesta un comando de orden de forma idempotente. Un hospitalId
// distinto a la identidad del nodo es un error de cliente; un comando
// repetido es un no-op exitoso, no un error.
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.OrderCommandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	delivery, _ := time.Parse("2006-01-02", in.EstimatedDeliveryDate)
	cmd := &entity.OrderCommand{
		OrderID:               in.OrderID,
		CommandID:             in.CommandID,
		HospitalID:            in.HospitalID,
		ProductCode:           in.ProductCode,
		OrderQuantity:         in.OrderQuantity,
		Priority:              in.Priority,
		EstimatedDeliveryDate: delivery,
		WarehouseID:           in.WarehouseID,
	}

	result, err := h.guard.Ingest(c.Context(), cmd, entity.ChannelEvent)
	if err != nil {
		if errors.Is(err, domain.ErrWrongHospital) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WRONG_HOSPITAL", Message: "hospitalId no corresponde a este nodo"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "orderId y commandId son obligatorios"})
		}
		h.log.Error().Err(err).Msg("ingesta de orden fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	message := "order received successfully"
	if result.Duplicate {
		message = "duplicate command, order already registered"
	}
	return c.JSON(dto.OrderCommandResponse{
		Success:   true,
		OrderID:   in.OrderID,
		Duplicate: result.Duplicate,
		Message:   message,
	})
}
