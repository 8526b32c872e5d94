package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta por ruptura de umbral.
const (
	AlertTypeLowStock      = "LOW_STOCK"
	AlertTypeCriticalStock = "CRITICAL_STOCK"
)

// Severidades de alerta.
const (
	SeverityHigh   = "HIGH"
	SeverityUrgent = "URGENT"
)

// Alert registra una ruptura del umbral de cobertura (tabla alerts).
// Se crea exactamente una vez por ruptura detectada y nunca se muta.
type Alert struct {
	HospitalID       string
	AlertType        string
	Severity         string
	CurrentStock     int
	DailyConsumption int
	DaysOfSupply     decimal.Decimal
	Threshold        decimal.Decimal
	CreatedAt        time.Time
}
