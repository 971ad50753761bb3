package dto

import "time"

// CreateSubCategoryRequest entrada para crear una subcategoría.
type CreateSubCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId" validate:"required"`
	Image       string `json:"image"`
}

// UpdateSubCategoryRequest parche parcial de una subcategoría.
type UpdateSubCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	Image       *string `json:"image"`
}

// SubCategoryListResponse lista paginada de subcategorías.
type SubCategoryListResponse struct {
	Items []SubCategoryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// SubCategoryResponse salida de una subcategoría.
type SubCategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
