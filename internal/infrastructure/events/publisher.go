// Package events implementa el canal de eventos: publica el snapshot como un
// documento JSON InventoryLow hacia el endpoint de ingesta, en un solo
// intento y sin reintentos.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/application/dto"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// PublisherConfig configuración del publicador de eventos.
type PublisherConfig struct {
	URL       string
	Threshold float64
	Deadline  time.Duration // deadline fijo del intento (30s de referencia)
}

// Publisher implementa monitor.Publisher sobre HTTP POST JSON.
type Publisher struct {
	httpClient *http.Client
	url        string
	threshold  float64
	deadline   time.Duration
	eventRepo  repository.EventLogRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewPublisher construye el publicador. now se inyecta para tests; nil usa
// el reloj real.
func NewPublisher(cfg PublisherConfig, eventRepo repository.EventLogRepository, log *logger.Logger, now func() time.Time) *Publisher {
	if cfg.Deadline <= 0 {
		cfg.Deadline = 30 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Publisher{
		httpClient: &http.Client{Timeout: cfg.Deadline},
		url:        cfg.URL,
		threshold:  cfg.Threshold,
		deadline:   cfg.Deadline,
		eventRepo:  eventRepo,
		log:        log,
		now:        now,
	}
}

// Publish construye el evento InventoryLow, lo envía una sola vez y clasifica
// el desenlace: 2xx con JSON parseable → éxito con el eco; falla de conexión
// → "connection failed" con latencia 0; deadline excedido → "timeout" con
// latencia igual al deadline; cualquier otro caso → falla con el mensaje
// capturado. Agrega exactamente un EventLogRecord con canal EVENT por llamada.
func (p *Publisher) Publish(ctx context.Context, snapshot *entity.StockSnapshot) entity.DispatchResult {
	start := p.now()
	event := dto.InventoryLowEvent{
		EventID:               fmt.Sprintf("EVT-%d", start.Unix()),
		EventType:             "InventoryLow",
		HospitalID:            snapshot.HospitalID,
		ProductCode:           snapshot.ProductCode,
		CurrentStockUnits:     snapshot.CurrentStockUnits,
		DailyConsumptionUnits: snapshot.DailyConsumptionUnits,
		DaysOfSupply:          snapshot.DaysOfSupply.InexactFloat64(),
		Threshold:             p.threshold,
		Timestamp:             start.Format(time.RFC3339),
	}
	payload, _ := json.Marshal(event)

	result := p.send(ctx, payload, start)

	status := entity.StatusSuccess
	if !result.Success {
		status = entity.StatusFailure
	}
	latency := result.LatencyMs
	record := &entity.EventLogRecord{
		EventType:    entity.EventTypeInventoryLow,
		Direction:    entity.DirectionOutgoing,
		Channel:      entity.ChannelEvent,
		Payload:      string(payload),
		Status:       status,
		ErrorMessage: result.Error,
		LatencyMs:    &latency,
		Timestamp:    p.now(),
	}
	if err := p.eventRepo.Append(ctx, record); err != nil {
		p.log.Warn().Err(err).Msg("no se pudo escribir la traza de auditoría del evento")
	}

	if result.Success {
		p.log.Info().Str("event_id", event.EventID).Int64("latency_ms", result.LatencyMs).Msg("evento publicado")
	} else {
		p.log.Error().Str("event_id", event.EventID).Str("error", result.Error).Msg("publicación de evento fallida")
	}
	return result
}

func (p *Publisher) send(ctx context.Context, payload []byte, start time.Time) entity.DispatchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return entity.DispatchResult{Attempts: 1, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return entity.DispatchResult{
				Attempts:  1,
				Error:     "timeout",
				LatencyMs: p.deadline.Milliseconds(),
			}
		}
		return entity.DispatchResult{Attempts: 1, Error: "connection failed", LatencyMs: 0}
	}
	defer resp.Body.Close()

	latency := p.now().Sub(start).Milliseconds()
	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entity.DispatchResult{Attempts: 1, Error: err.Error(), LatencyMs: latency}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return entity.DispatchResult{
			Attempts:  1,
			Error:     fmt.Sprintf("HTTP %d", resp.StatusCode),
			LatencyMs: latency,
		}
	}

	var echo dto.EventPublishResponse
	if err := json.Unmarshal(rawBody, &echo); err != nil {
		return entity.DispatchResult{Attempts: 1, Error: "respuesta inleíble: " + err.Error(), LatencyMs: latency}
	}

	return entity.DispatchResult{
		Success:   true,
		Attempts:  1,
		LatencyMs: latency,
	}
}

// isTimeout distingue el deadline excedido de una falla de conexión.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
