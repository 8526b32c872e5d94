package http

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-supply-chain/internal/application/dto"
	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// EventHandler atiende la ingesta de eventos InventoryLow y la consulta del
// ledger de stock.
type EventHandler struct {
	hospitalID  string
	productCode string
	stockRepo   repository.StockRepository
	eventRepo   repository.EventLogRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewEventHandler construye el handler.
func NewEventHandler(
	hospitalID, productCode string,
	stockRepo repository.StockRepository,
	eventRepo repository.EventLogRepository,
	log *logger.Logger,
) *EventHandler {
	return &EventHandler{
		hospitalID:  hospitalID,
		productCode: productCode,
		stockRepo:   stockRepo,
		eventRepo:   eventRepo,
		log:         log,
		now:         time.Now,
	}
}

// Publish recibe el documento del evento, lo audita y devuelve el eco con la
// latencia medida en el servidor.
func (h *EventHandler) Publish(c *fiber.Ctx) error {
	start := h.now()

	var event dto.InventoryLowEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if event.EventID == "" || event.EventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "eventId y eventType son obligatorios"})
	}

	latency := h.now().Sub(start).Milliseconds()
	payload, _ := json.Marshal(event)
	record := &entity.EventLogRecord{
		EventType: entity.EventTypeInventoryLow,
		Direction: entity.DirectionIncoming,
		Channel:   entity.ChannelEvent,
		Payload:   string(payload),
		Status:    entity.StatusSuccess,
		LatencyMs: &latency,
		Timestamp: h.now(),
	}
	if err := h.eventRepo.Append(c.Context(), record); err != nil {
		h.log.Error().Err(err).Msg("no se pudo auditar el evento entrante")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "event log unavailable"})
	}

	h.log.Info().Str("event_id", event.EventID).Int64("latency_ms", latency).Msg("evento recibido")
	return c.JSON(dto.EventPublishResponse{
		Success:   true,
		Event:     event,
		LatencyMs: latency,
	})
}

// Stock devuelve la fila del ledger del nodo.
func (h *EventHandler) Stock(c *fiber.Ctx) error {
	snapshot, err := h.stockRepo.Get(c.Context(), h.hospitalID, h.productCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "stock no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.StockResponse{
		HospitalID:            snapshot.HospitalID,
		ProductCode:           snapshot.ProductCode,
		CurrentStockUnits:     snapshot.CurrentStockUnits,
		DailyConsumptionUnits: snapshot.DailyConsumptionUnits,
		DaysOfSupply:          snapshot.DaysOfSupply.InexactFloat64(),
	})
}
