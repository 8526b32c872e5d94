package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrWrongHospital = errors.New("identidad de hospital no coincide")
)

// StoreError señala que un almacén (ledger, alertas, órdenes, event log) no
// está disponible. Los llamadores deciden explícitamente degradar y continuar
// en vez de depender de nulos implícitos.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("almacén no disponible en %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError envuelve el error de infraestructura con la operación fallida.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsStoreUnavailable indica si err (o su cadena) es un StoreError.
func IsStoreUnavailable(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
