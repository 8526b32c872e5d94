// Package retry implementa una política explícita de reintentos con una
// agenda fija de esperas, parametrizada sobre la operación. La usan los
// canales de envío para mantener un comportamiento consistente.
package retry

import (
	"context"
	"time"
)

// Policy define el máximo de intentos y la agenda de esperas entre ellos,
// indexada por número de intento. Si MaxAttempts excede la agenda, se usa la
// última entrada.
type Policy struct {
	MaxAttempts int
	Delays      []time.Duration
}

// DefaultPolicy es la política de referencia del canal RPC: 3 intentos con
// esperas de 5s, 15s y 30s.
func DefaultPolicy(maxAttempts int) Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return Policy{
		MaxAttempts: maxAttempts,
		Delays:      []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second},
	}
}

// DelayFor devuelve la espera tras el intento dado (1-indexado), recortada a
// la última entrada de la agenda.
func (p Policy) DelayFor(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Delays) {
		idx = len(p.Delays) - 1
	}
	return p.Delays[idx]
}

// SleepFunc espera la duración dada respetando la cancelación del contexto.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep es la implementación real de SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do ejecuta op hasta que tenga éxito o se agoten los intentos, durmiendo
// entre intentos según la política. Devuelve el número de intentos realizados
// y el último error (nil si hubo éxito).
func Do(ctx context.Context, p Policy, sleep SleepFunc, op func(attempt int) error) (int, error) {
	if sleep == nil {
		sleep = Sleep
	}
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op(attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if attempt < p.MaxAttempts {
			if err := sleep(ctx, p.DelayFor(attempt)); err != nil {
				return attempt, lastErr
			}
		}
	}
	return p.MaxAttempts, lastErr
}
