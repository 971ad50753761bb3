package entity

import "time"

// Category representa una categoría de productos del catálogo.
type Category struct {
	ID          string
	Name        string // único
	Code        string // slug derivado del nombre
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
