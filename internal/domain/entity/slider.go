package entity

import "time"

// Slider banner de portada con orden de aparición.
type Slider struct {
	ID        string
	Image     string
	Alt       string
	Active    bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
