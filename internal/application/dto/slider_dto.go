package dto

import "time"

// CreateSliderRequest entrada para crear una diapositiva del carrusel.
type CreateSliderRequest struct {
	Image     string `json:"image" validate:"required"`
	Alt       string `json:"alt"`
	Active    *bool  `json:"active"` // nil = true
	SortOrder int    `json:"sortOrder"`
}

// UpdateSliderRequest parche parcial de una diapositiva.
type UpdateSliderRequest struct {
	Image     *string `json:"image"`
	Alt       *string `json:"alt"`
	Active    *bool   `json:"active"`
	SortOrder *int    `json:"sortOrder"`
}

// SliderListResponse lista paginada de diapositivas.
type SliderListResponse struct {
	Items []SliderResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// SliderResponse salida de una diapositiva.
type SliderResponse struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	Alt       string    `json:"alt"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
