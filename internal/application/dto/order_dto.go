package dto

// OrderCommandRequest es el documento JSON de la interfaz de ingesta de
// órdenes. hospitalId debe coincidir con la identidad configurada del nodo.
type OrderCommandRequest struct {
	OrderID               string `json:"orderId"`
	CommandID             string `json:"commandId"`
	HospitalID            string `json:"hospitalId"`
	ProductCode           string `json:"productCode"`
	OrderQuantity         int    `json:"orderQuantity"`
	Priority              string `json:"priority"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
	WarehouseID           string `json:"warehouseId"`
}

// OrderCommandResponse resultado de la ingesta idempotente.
type OrderCommandResponse struct {
	Success   bool   `json:"success"`
	OrderID   string `json:"orderId"`
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message"`
}

// HealthResponse respuesta de los endpoints de salud de ambos servicios.
type HealthResponse struct {
	Status      string  `json:"status"`
	ServiceName string  `json:"serviceName"`
	HospitalID  string  `json:"hospitalId"`
	Timestamp   float64 `json:"timestamp"`
}

// ErrorResponse respuesta de error uniforme de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StockResponse expone la fila del ledger para consulta.
type StockResponse struct {
	HospitalID            string  `json:"hospitalId"`
	ProductCode           string  `json:"productCode"`
	CurrentStockUnits     int     `json:"currentStockUnits"`
	DailyConsumptionUnits int     `json:"dailyConsumptionUnits"`
	DaysOfSupply          float64 `json:"daysOfSupply"`
}
