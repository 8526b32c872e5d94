package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-supply-chain/internal/application/orders"
	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/soap"
	"github.com/jhoicas/hospital-supply-chain/pkg/config"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// SOAPHandler atiende el StockUpdateService: parsea el envelope del request
// y, con cobertura bajo umbral, dispara una orden vía el guard de ingesta.
type SOAPHandler struct {
	hospitalID string
	threshold  float64
	orderCfg   config.OrderConfig
	guard      *orders.IntakeGuard
	log        *logger.Logger
	now        func() time.Time
}

// NewSOAPHandler construye el handler.
func NewSOAPHandler(hospitalID string, threshold float64, orderCfg config.OrderConfig, guard *orders.IntakeGuard, log *logger.Logger) *SOAPHandler {
	return &SOAPHandler{
		hospitalID: hospitalID,
		threshold:  threshold,
		orderCfg:   orderCfg,
		guard:      guard,
		log:        log,
		now:        time.Now,
	}
}

// StockUpdate procesa un StockUpdateRequest y responde el envelope SOAP con
// {success, message, orderTriggered, orderId}.
func (h *SOAPHandler) StockUpdate(c *fiber.Ctx) error {
	req, err := soap.ParseRequest(c.Body())
	if err != nil {
		h.log.Warn().Err(err).Msg("request SOAP malformado")
		return h.respond(c, fiber.StatusBadRequest, entity.ParsedResponse{
			Success: false,
			Message: "invalid request: " + err.Error(),
		})
	}

	if req.HospitalID != h.hospitalID {
		return h.respond(c, fiber.StatusBadRequest, entity.ParsedResponse{
			Success: false,
			Message: "wrong hospital id",
		})
	}

	days, err := strconv.ParseFloat(req.DaysOfSupply, 64)
	if err != nil {
		return h.respond(c, fiber.StatusBadRequest, entity.ParsedResponse{
			Success: false,
			Message: "invalid daysOfSupply",
		})
	}

	if days >= h.threshold {
		return h.respond(c, fiber.StatusOK, entity.ParsedResponse{
			Success: true,
			Message: "stock update acknowledged, no order required",
		})
	}

	orderID, commandID := orders.DeriveIDs(req.HospitalID, req.ProductCode, req.Timestamp)
	cmd := &entity.OrderCommand{
		OrderID:               orderID,
		CommandID:             commandID,
		HospitalID:            req.HospitalID,
		ProductCode:           req.ProductCode,
		OrderQuantity:         h.orderCfg.OrderQuantity,
		Priority:              h.orderCfg.Priority,
		EstimatedDeliveryDate: h.now().AddDate(0, 0, h.orderCfg.DeliveryDays),
		WarehouseID:           h.orderCfg.WarehouseID,
	}

	result, err := h.guard.Ingest(c.Context(), cmd, entity.ChannelRPC)
	if err != nil {
		if err == domain.ErrWrongHospital {
			return h.respond(c, fiber.StatusBadRequest, entity.ParsedResponse{
				Success: false,
				Message: "wrong hospital id",
			})
		}
		h.log.Error().Err(err).Msg("ingesta de orden fallida")
		return h.respond(c, fiber.StatusInternalServerError, entity.ParsedResponse{
			Success: false,
			Message: "order store unavailable",
		})
	}

	message := "replenishment order created"
	if result.Duplicate {
		message = "order already registered"
	}
	return h.respond(c, fiber.StatusOK, entity.ParsedResponse{
		Success:        true,
		Message:        message,
		OrderTriggered: true,
		OrderID:        orderID,
	})
}

func (h *SOAPHandler) respond(c *fiber.Ctx, status int, resp entity.ParsedResponse) error {
	payload, err := soap.BuildResponse(resp)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Set(fiber.HeaderContentType, soap.ContentTypeXML)
	return c.Status(status).Send(payload)
}
