package entity

import "time"

// SubCategory representa una subcategoría; pertenece a exactamente una Category.
// El nombre es único dentro de su categoría.
type SubCategory struct {
	ID          string
	Name        string
	Description string
	Image       string
	CategoryID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
