package monitor

import (
	"math/rand"
	"time"
)

// Factores de la simulación de consumo diario.
const (
	variationRange  = 0.15 // variación uniforme ±15%
	spikeChance     = 0.05 // probabilidad de pico de consumo
	spikeMultiplier = 1.5
	weekendFactor   = 0.7
)

// Simulator produce un consumo diario aleatorizado a partir de una tasa base.
// Es sin estado y reproducible: la fuente aleatoria y la fecha de simulación
// se inyectan en el constructor.
type Simulator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSimulator construye el simulador. now determina la fecha de simulación
// (efecto fin de semana).
func NewSimulator(rng *rand.Rand, now func() time.Time) *Simulator {
	if now == nil {
		now = time.Now
	}
	return &Simulator{rng: rng, now: now}
}

// Simulate devuelve las unidades consumidas del día: tasa base con variación
// uniforme en [-15%, +15%], pico ×1.5 con probabilidad independiente del 5%,
// factor ×0.7 en fin de semana, truncado hacia cero a entero.
// Una tasa base cero o negativa devuelve 0 sin consumir aleatoriedad.
func (s *Simulator) Simulate(baseRate int) int {
	if baseRate <= 0 {
		return 0
	}

	variation := s.rng.Float64()*(2*variationRange) - variationRange
	consumption := float64(baseRate) * (1 + variation)

	if s.rng.Float64() < spikeChance {
		consumption *= spikeMultiplier
	}

	if isWeekend(s.now()) {
		consumption *= weekendFactor
	}

	consumed := int(consumption)
	if consumed < 0 {
		consumed = 0
	}
	return consumed
}

// isWeekend indica si la fecha cae en sábado o domingo.
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
