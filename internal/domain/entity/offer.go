package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceType indica qué campo de precio descuenta una oferta.
// Los valores coinciden con los nombres de campo expuestos por la API.
type PriceType string

const (
	PriceTypeRetail    PriceType = "retailPrice"
	PriceTypeWholesale PriceType = "wholesalePrice"
)

// ValidPriceType reconoce los tipos de precio soportados.
func ValidPriceType(pt PriceType) bool {
	return pt == PriceTypeRetail || pt == PriceTypeWholesale
}

// Offer es una promoción de porcentaje plano sobre uno o dos campos de precio
// de un conjunto de productos, con ventana de vigencia y bandera de activación
// independiente de las fechas.
type Offer struct {
	ID          string
	Title       string
	Description string

	Discount  decimal.Decimal // porcentaje, validado en (0, 100)
	StartDate time.Time
	EndDate   time.Time

	ProductIDs []string
	PriceTypes []PriceType

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveAt indica si la oferta está vigente en el instante dado:
// activa y dentro de [StartDate, EndDate]. Solo una oferta vigente puede
// mantener precios descontados sobre productos.
func (o *Offer) EffectiveAt(now time.Time) bool {
	return o.Active && !now.Before(o.StartDate) && !now.After(o.EndDate)
}

// Targets indica si el producto pertenece al conjunto objetivo de la oferta.
func (o *Offer) Targets(productID string) bool {
	for _, id := range o.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Controls indica si la oferta descuenta el campo de precio dado.
func (o *Offer) Controls(pt PriceType) bool {
	for _, t := range o.PriceTypes {
		if t == pt {
			return true
		}
	}
	return false
}
