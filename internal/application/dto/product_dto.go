package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=120"`
	Description    string          `json:"description"`
	Image          string          `json:"image"`
	CategoryID     string          `json:"categoryId" validate:"required"`
	SubCategoryID  string          `json:"subCategoryId"`
	Stock          int             `json:"stock"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
}

// UpdateProductRequest parche parcial de un producto; nil deja el campo intacto.
// Los precios no pueden editarse mientras una oferta activa controla el producto.
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Image          *string          `json:"image"`
	CategoryID     *string          `json:"categoryId"`
	SubCategoryID  *string          `json:"subCategoryId"`
	Stock          *int             `json:"stock"`
	RetailPrice    *decimal.Decimal `json:"retailPrice"`
	WholesalePrice *decimal.Decimal `json:"wholesalePrice"`
}

// ProductResponse salida de un producto. Los campos mayoristas solo se
// incluyen para clientes con acceso mayorista verificado.
type ProductResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	CategoryID    string `json:"categoryId"`
	SubCategoryID string `json:"subCategoryId,omitempty"`
	Stock         int    `json:"stock"`

	RetailPrice         decimal.Decimal  `json:"retailPrice"`
	OriginalRetailPrice *decimal.Decimal `json:"originalRetailPrice,omitempty"`

	WholesalePrice         *decimal.Decimal `json:"wholesalePrice,omitempty"`
	OriginalWholesalePrice *decimal.Decimal `json:"originalWholesalePrice,omitempty"`

	HasActiveOffer bool   `json:"hasActiveOffer"`
	ActiveOfferID  string `json:"activeOfferId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse arma la respuesta pública de un producto. Con
// includeWholesale=false los precios mayoristas se omiten por completo.
func ToProductResponse(p *entity.Product, includeWholesale bool) ProductResponse {
	r := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Image:          p.Image,
		CategoryID:     p.CategoryID,
		SubCategoryID:  p.SubCategoryID,
		Stock:          p.Stock,
		RetailPrice:    p.RetailPrice,
		HasActiveOffer: p.HasActiveOffer,
		ActiveOfferID:  p.ActiveOfferID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.HasActiveOffer && p.OriginalRetailPrice.Valid {
		v := p.OriginalRetailPrice.Decimal
		r.OriginalRetailPrice = &v
	}
	if includeWholesale {
		w := p.WholesalePrice
		r.WholesalePrice = &w
		if p.HasActiveOffer && p.OriginalWholesalePrice.Valid {
			ow := p.OriginalWholesalePrice.Decimal
			r.OriginalWholesalePrice = &ow
		}
	}
	return r
}
