package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con precio minorista y mayorista.
// OriginalRetailPrice/OriginalWholesalePrice guardan el precio pre-descuento:
// son la base de restauración cuando la oferta que lo controla termina, y se
// estampan con el precio vigente al crear el producto.
type Product struct {
	ID            string
	Name          string
	Description   string
	Image         string
	CategoryID    string
	SubCategoryID string
	Stock         int

	RetailPrice    decimal.Decimal
	WholesalePrice decimal.Decimal

	// NullDecimal: un original ausente en un producto descontado es una
	// inconsistencia que el motor reporta en lugar de adivinar.
	OriginalRetailPrice    decimal.NullDecimal
	OriginalWholesalePrice decimal.NullDecimal

	HasActiveOffer bool
	ActiveOfferID  string // vacío = sin oferta dueña

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy indica si la oferta dada es la dueña actual del producto.
func (p *Product) OwnedBy(offerID string) bool {
	return p.HasActiveOffer && p.ActiveOfferID == offerID
}

// ProductPriceUpdate actualización parcial de los campos de precio y de
// propiedad de oferta. Un puntero nil deja el campo intacto;
// HasActiveOffer/ActiveOfferID se escriben siempre.
type ProductPriceUpdate struct {
	ProductID string

	RetailPrice    *decimal.Decimal
	WholesalePrice *decimal.Decimal

	OriginalRetailPrice    *decimal.Decimal
	OriginalWholesalePrice *decimal.Decimal

	HasActiveOffer bool
	ActiveOfferID  string // vacío = NULL
}
