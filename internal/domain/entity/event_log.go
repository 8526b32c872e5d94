package entity

import "time"

// Direcciones de un registro de auditoría.
const (
	DirectionIncoming = "INCOMING"
	DirectionOutgoing = "OUTGOING"
)

// Canales de entrega comparados por el nodo.
const (
	ChannelRPC   = "RPC"
	ChannelEvent = "EVENT"
)

// Estados terminales de un registro.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Tipos de evento auditados.
const (
	EventTypeStockUpdateSent      = "STOCK_UPDATE_SENT"
	EventTypeInventoryLow         = "INVENTORY_LOW_EVENT"
	EventTypeOrderCommandReceived = "ORDER_COMMAND_RECEIVED"
)

// EventLogRecord es la traza de auditoría de ambos canales (tabla event_log,
// solo inserciones). Sirve de base para el análisis de latencias por canal.
type EventLogRecord struct {
	ID           int64
	EventType    string
	Direction    string
	Channel      string
	Payload      string
	Status       string
	ErrorMessage string
	LatencyMs    *int64
	Timestamp    time.Time
}
