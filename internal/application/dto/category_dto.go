package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. El código (slug)
// se deriva del nombre.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdateCategoryRequest parche parcial de una categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
