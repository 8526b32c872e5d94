package entity

import "time"

// ConsumptionEvent registra el consumo simulado de un día (tabla
// consumption_history). Se crea una vez por tick y es inmutable.
type ConsumptionEvent struct {
	HospitalID    string
	ProductCode   string
	Date          time.Time
	UnitsConsumed int
	OpeningStock  int
	ClosingStock  int
	DayOfWeek     string
	IsWeekend     bool
}
