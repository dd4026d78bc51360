package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPersistence       = errors.New("fallo de persistencia")
)

// ValidationError describe la regla de entrada que no se cumplió.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError construye un error de validación para el campo indicado.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Persistence envuelve un fallo del almacén como ErrPersistence conservando la causa original.
// Los errores de dominio ya clasificados se devuelven sin cambios.
func Persistence(err error) error {
	if err == nil || IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// IsKnown indica si err pertenece a la taxonomía de errores de dominio.
func IsKnown(err error) bool {
	for _, known := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrInsufficientStock, ErrPersistence,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// Code devuelve el código estable del tipo de error, usado en las respuestas HTTP.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrPersistence):
		return "PERSISTENCE"
	default:
		return "INTERNAL"
	}
}
