package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrValidation   = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrConflict: el producto ya está reclamado por otra oferta activa,
	// o la operación perdió la carrera por reclamarlo.
	ErrConflict = errors.New("conflicto con el estado actual")

	// ErrIntegrity: el estado persistido contradice los invariantes del
	// motor de precios (ej. restaurar sin precio original guardado).
	ErrIntegrity = errors.New("inconsistencia de datos")
)
