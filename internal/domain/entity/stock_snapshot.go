package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSnapshot representa el estado del inventario de un producto en un
// hospital (fila única de la tabla stock). Solo el paso de aplicación de
// consumo lo muta; el resto de componentes lo lee.
type StockSnapshot struct {
	HospitalID            string
	ProductCode           string
	CurrentStockUnits     int
	DailyConsumptionUnits int
	DaysOfSupply          decimal.Decimal
	LastUpdated           time.Time
}

// RecalculateDaysOfSupply recalcula días de cobertura (stock / consumo diario,
// redondeado a 2 decimales). Con consumo cero devuelve cero.
func (s *StockSnapshot) RecalculateDaysOfSupply() {
	if s.DailyConsumptionUnits <= 0 {
		s.DaysOfSupply = decimal.Zero
		return
	}
	s.DaysOfSupply = decimal.NewFromInt(int64(s.CurrentStockUnits)).
		Div(decimal.NewFromInt(int64(s.DailyConsumptionUnits))).
		Round(2)
}

// ApplyConsumption descuenta unidades consumidas sin dejar el stock negativo
// y recalcula los días de cobertura.
func (s *StockSnapshot) ApplyConsumption(units int, at time.Time) {
	if units < 0 {
		units = 0
	}
	newStock := s.CurrentStockUnits - units
	if newStock < 0 {
		newStock = 0
	}
	s.CurrentStockUnits = newStock
	s.LastUpdated = at
	s.RecalculateDaysOfSupply()
}
