package dto

// InventoryLowEvent es el documento JSON publicado por el canal de eventos
// cuando la cobertura cae bajo el umbral.
type InventoryLowEvent struct {
	EventID               string  `json:"eventId"`
	EventType             string  `json:"eventType"`
	HospitalID            string  `json:"hospitalId"`
	ProductCode           string  `json:"productCode"`
	CurrentStockUnits     int     `json:"currentStockUnits"`
	DailyConsumptionUnits int     `json:"dailyConsumptionUnits"`
	DaysOfSupply          float64 `json:"daysOfSupply"`
	Threshold             float64 `json:"threshold"`
	Timestamp             string  `json:"timestamp"`
}

// EventPublishResponse es el eco devuelto por el endpoint de ingesta de
// eventos, con la latencia medida en el servidor.
type EventPublishResponse struct {
	Success   bool              `json:"success"`
	Event     InventoryLowEvent `json:"event"`
	LatencyMs int64             `json:"latency_ms"`
}
