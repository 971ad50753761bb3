package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOfferRequest entrada para crear una oferta.
// Los nombres JSON siguen los campos expuestos por la API pública.
type CreateOfferRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=100"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Products    []string        `json:"products"`
	PriceTypes  []string        `json:"priceTypes"`
	Active      *bool           `json:"active"` // nil = true
}

// UpdateOfferRequest parche parcial de una oferta; nil deja el campo intacto.
type UpdateOfferRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Discount    *decimal.Decimal `json:"discount"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	Products    *[]string        `json:"products"`
	PriceTypes  *[]string        `json:"priceTypes"`
	Active      *bool            `json:"active"`
}

// OfferResponse salida de una oferta.
type OfferResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Products    []string        `json:"products"`
	PriceTypes  []string        `json:"priceTypes"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OfferListResponse lista paginada de ofertas.
type OfferListResponse struct {
	Items []OfferResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
