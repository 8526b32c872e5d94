package soap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
	"github.com/jhoicas/hospital-supply-chain/pkg/retry"
)

// ClientConfig configuración del cliente SOAP de actualización de stock.
type ClientConfig struct {
	URL     string
	Action  string
	Timeout time.Duration
}

// Client es el despachador RPC: serializa el snapshot en el envelope,
// lo envía con reintentos acotados y backoff creciente, y parsea la
// respuesta. Implementa monitor.Dispatcher.
type Client struct {
	httpClient *http.Client
	url        string
	action     string
	eventRepo  repository.EventLogRepository
	log        *logger.Logger
	sleep      retry.SleepFunc
	now        func() time.Time
}

// NewClient construye el cliente. sleep y now se inyectan para tests de
// reintentos; con nil se usan los reales.
func NewClient(
	cfg ClientConfig,
	eventRepo repository.EventLogRepository,
	log *logger.Logger,
	sleep retry.SleepFunc,
	now func() time.Time,
) *Client {
	if cfg.Action == "" {
		cfg.Action = ActionStockUpdate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if sleep == nil {
		sleep = retry.Sleep
	}
	if now == nil {
		now = time.Now
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		action:     cfg.Action,
		eventRepo:  eventRepo,
		log:        log,
		sleep:      sleep,
		now:        now,
	}
}

// Dispatch envía el snapshot por el canal RPC. Reintenta ante error de
// transporte o estado no-2xx según la agenda 5s/15s/30s; un body de respuesta
// malformado NO reintenta (el request fue entregado, solo la respuesta es
// inleíble). LatencyMs corresponde al intento final. Cada desenlace terminal
// agrega exactamente un EventLogRecord con canal RPC; los reintentos
// intermedios solo se loguean.
func (c *Client) Dispatch(ctx context.Context, snapshot *entity.StockSnapshot, maxAttempts int) entity.DispatchResult {
	policy := retry.DefaultPolicy(maxAttempts)

	var (
		lastLatency int64
		parsed      entity.ParsedResponse
	)

	attempts, err := retry.Do(ctx, policy, c.sleep, func(attempt int) error {
		if attempt > 1 {
			c.log.Warn().Int("attempt", attempt).Int("max_attempts", policy.MaxAttempts).Msg("reintentando envío SOAP")
		}

		start := c.now()
		attemptErr := c.attempt(ctx, snapshot, &parsed)
		lastLatency = c.now().Sub(start).Milliseconds()
		return attemptErr
	})

	if err != nil {
		result := entity.DispatchResult{
			Success:   false,
			LatencyMs: lastLatency,
			Attempts:  attempts,
			Error:     err.Error(),
		}
		c.appendRecord(ctx, snapshot, entity.StatusFailure, err.Error(), lastLatency)
		c.log.Error().Err(err).Int("attempts", attempts).Msg("envío SOAP agotó los reintentos")
		return result
	}

	result := entity.DispatchResult{
		Success:         true,
		LatencyMs:       lastLatency,
		Attempts:        attempts,
		ResponsePayload: &parsed,
	}
	c.appendRecord(ctx, snapshot, entity.StatusSuccess, "", lastLatency)
	c.log.Info().
		Int("attempts", attempts).
		Int64("latency_ms", lastLatency).
		Bool("order_triggered", parsed.OrderTriggered).
		Msg("envío SOAP exitoso")
	return result
}

// attempt ejecuta un único intento: construir envelope, POST, validar estado
// y parsear body. parsed solo queda poblado cuando el intento entrega.
func (c *Client) attempt(ctx context.Context, snapshot *entity.StockSnapshot, parsed *entity.ParsedResponse) error {
	payload, err := BuildRequest(snapshot, c.now())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("soap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeXML)
	req.Header.Set("SOAPAction", c.action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("soap: transporte: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return fmt.Errorf("soap: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("soap: HTTP %d: %s", resp.StatusCode, truncate(string(rawBody), 200))
	}

	// Entregado: un body malformado degrada a ParsedResponse de falla
	// semántica, nunca dispara reintento.
	*parsed = ParseResponse(rawBody)
	return nil
}

// appendRecord agrega la fila de auditoría del desenlace terminal.
// Una falla del event log no altera el resultado del despacho.
func (c *Client) appendRecord(ctx context.Context, snapshot *entity.StockSnapshot, status, errMsg string, latencyMs int64) {
	payload, _ := json.Marshal(map[string]any{
		"hospitalId":            snapshot.HospitalID,
		"productCode":           snapshot.ProductCode,
		"currentStockUnits":     snapshot.CurrentStockUnits,
		"dailyConsumptionUnits": snapshot.DailyConsumptionUnits,
		"daysOfSupply":          snapshot.DaysOfSupply.StringFixed(2),
	})
	record := &entity.EventLogRecord{
		EventType:    entity.EventTypeStockUpdateSent,
		Direction:    entity.DirectionOutgoing,
		Channel:      entity.ChannelRPC,
		Payload:      string(payload),
		Status:       status,
		ErrorMessage: errMsg,
		LatencyMs:    &latencyMs,
		Timestamp:    c.now(),
	}
	if err := c.eventRepo.Append(ctx, record); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo escribir la traza de auditoría RPC")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
