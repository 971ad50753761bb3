// Package pricing implementa el motor de sincronización de precios entre
// ofertas y productos. Es cómputo puro: recibe snapshots de entidades y
// devuelve el lote de actualizaciones de precio a persistir, sin tocar
// almacenamiento ni loguear. El invariante central: un descuento se calcula
// SIEMPRE sobre el precio original guardado, nunca sobre un precio ya
// descontado, para que editar una oferta no componga descuentos.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// IntegrityIssue reporta un campo que no pudo restaurarse o recalcularse por
// falta del precio original guardado. El campo se deja intacto; quien llama
// decide cómo loguearlo.
type IntegrityIssue struct {
	ProductID string
	Field     entity.PriceType
	Reason    string
}

// Discounted aplica el porcentaje sobre el original: original * (1 - d/100).
func Discounted(original, discount decimal.Decimal) decimal.Decimal {
	return original.Mul(one.Sub(discount.Div(hundred)))
}

// ValidateOffer valida los campos intrínsecos de una oferta: rango del
// descuento (0,100) exclusivo, orden de fechas y conjuntos no vacíos.
func ValidateOffer(o *entity.Offer) error {
	if o.Discount.LessThan(one) || o.Discount.GreaterThan(decimal.NewFromInt(99)) {
		return fmt.Errorf("%w: discount debe estar entre 1 y 99", domain.ErrValidation)
	}
	if !o.EndDate.After(o.StartDate) {
		return fmt.Errorf("%w: endDate debe ser posterior a startDate", domain.ErrValidation)
	}
	if len(o.ProductIDs) == 0 {
		return fmt.Errorf("%w: la oferta requiere al menos un producto", domain.ErrValidation)
	}
	if len(o.PriceTypes) == 0 {
		return fmt.Errorf("%w: la oferta requiere al menos un priceType", domain.ErrValidation)
	}
	for _, pt := range o.PriceTypes {
		if !entity.ValidPriceType(pt) {
			return fmt.Errorf("%w: priceType desconocido %q", domain.ErrValidation, pt)
		}
	}
	return nil
}

// ComputeApply calcula las actualizaciones para aplicar la oferta sobre sus
// productos objetivo. Por producto aún no reclamado: captura el original por
// cada priceType seleccionado, marca la propiedad y fija el precio
// descontado. Productos ya reclamados por esta misma oferta se omiten
// (idempotencia: re-aplicar no produce cambios). Un producto reclamado por
// otra oferta produce ErrConflict; un descuento que no reduce el precio
// produce ErrValidation.
func ComputeApply(offer *entity.Offer, products []*entity.Product) ([]entity.ProductPriceUpdate, error) {
	updates := make([]entity.ProductPriceUpdate, 0, len(products))
	for _, p := range products {
		if p.OwnedBy(offer.ID) {
			continue
		}
		if p.HasActiveOffer {
			return nil, fmt.Errorf("%w: el producto %s ya tiene la oferta activa %s",
				domain.ErrConflict, p.ID, p.ActiveOfferID)
		}
		u := entity.ProductPriceUpdate{
			ProductID:      p.ID,
			HasActiveOffer: true,
			ActiveOfferID:  offer.ID,
		}
		for _, pt := range offer.PriceTypes {
			original := livePrice(p, pt)
			want := Discounted(original, offer.Discount)
			if want.GreaterThanOrEqual(original) {
				return nil, fmt.Errorf("%w: el descuento no reduce %s del producto %s",
					domain.ErrValidation, pt, p.ID)
			}
			setPrice(&u, pt, want)
			setOriginal(&u, pt, original)
		}
		updates = append(updates, u)
	}
	return updates, nil
}

// ComputeRestore calcula las actualizaciones para devolver a su precio
// original los productos actualmente reclamados por la oferta. La propiedad
// se limpia siempre; cada campo controlado se restaura solo si el original
// guardado existe — si falta, el campo queda intacto y se reporta un
// IntegrityIssue en lugar de adoptar una base equivocada.
func ComputeRestore(offer *entity.Offer, products []*entity.Product) ([]entity.ProductPriceUpdate, []IntegrityIssue) {
	var issues []IntegrityIssue
	updates := make([]entity.ProductPriceUpdate, 0, len(products))
	for _, p := range products {
		if !p.OwnedBy(offer.ID) {
			continue
		}
		u := entity.ProductPriceUpdate{ProductID: p.ID}
		for _, pt := range offer.PriceTypes {
			if orig, ok := storedOriginal(p, pt); ok {
				setPrice(&u, pt, orig)
			} else {
				issues = append(issues, IntegrityIssue{
					ProductID: p.ID,
					Field:     pt,
					Reason:    "restauración sin precio original guardado",
				})
			}
		}
		updates = append(updates, u)
	}
	return updates, issues
}

// ComputeReconcile calcula la transición entre dos estados de una misma
// oferta: restaura productos removidos y campos que dejaron de descontarse,
// aplica sobre productos agregados y campos recién controlados, y recalcula
// desde el original guardado cuando solo cambió la magnitud del descuento.
func ComputeReconcile(old, next *entity.Offer, products []*entity.Product) ([]entity.ProductPriceUpdate, []IntegrityIssue, error) {
	var issues []IntegrityIssue
	updates := make([]entity.ProductPriceUpdate, 0, len(products))
	allTypes := []entity.PriceType{entity.PriceTypeRetail, entity.PriceTypeWholesale}

	for _, p := range products {
		owned := p.OwnedBy(old.ID)

		if !next.Targets(p.ID) {
			// Removido del conjunto objetivo: restaurar lo que la oferta controlaba.
			if !owned {
				continue
			}
			u := entity.ProductPriceUpdate{ProductID: p.ID}
			for _, pt := range old.PriceTypes {
				if orig, ok := storedOriginal(p, pt); ok {
					setPrice(&u, pt, orig)
				} else {
					issues = append(issues, IntegrityIssue{ProductID: p.ID, Field: pt,
						Reason: "restauración sin precio original guardado"})
				}
			}
			updates = append(updates, u)
			continue
		}

		if p.HasActiveOffer && !owned {
			return nil, nil, fmt.Errorf("%w: el producto %s ya tiene la oferta activa %s",
				domain.ErrConflict, p.ID, p.ActiveOfferID)
		}

		u := entity.ProductPriceUpdate{
			ProductID:      p.ID,
			HasActiveOffer: true,
			ActiveOfferID:  old.ID,
		}
		changed := !owned
		for _, pt := range allTypes {
			wasControlled := owned && old.Controls(pt)
			isControlled := next.Controls(pt)
			switch {
			case isControlled && wasControlled:
				// Solo cambió la magnitud: recalcular desde el original
				// guardado, nunca desde el precio vivo ya descontado.
				orig, ok := storedOriginal(p, pt)
				if !ok {
					issues = append(issues, IntegrityIssue{ProductID: p.ID, Field: pt,
						Reason: "recálculo sin precio original guardado"})
					continue
				}
				want := Discounted(orig, next.Discount)
				if want.GreaterThanOrEqual(orig) {
					return nil, nil, fmt.Errorf("%w: el descuento no reduce %s del producto %s",
						domain.ErrValidation, pt, p.ID)
				}
				if !want.Equal(livePrice(p, pt)) {
					setPrice(&u, pt, want)
					changed = true
				}
			case isControlled && !wasControlled:
				// Campo recién controlado (o producto recién agregado):
				// el precio vivo aún no está descontado, capturarlo como original.
				original := livePrice(p, pt)
				want := Discounted(original, next.Discount)
				if want.GreaterThanOrEqual(original) {
					return nil, nil, fmt.Errorf("%w: el descuento no reduce %s del producto %s",
						domain.ErrValidation, pt, p.ID)
				}
				setPrice(&u, pt, want)
				setOriginal(&u, pt, original)
				changed = true
			case !isControlled && wasControlled:
				// La oferta dejó de controlar el campo: restaurarlo.
				if orig, ok := storedOriginal(p, pt); ok {
					setPrice(&u, pt, orig)
					changed = true
				} else {
					issues = append(issues, IntegrityIssue{ProductID: p.ID, Field: pt,
						Reason: "restauración sin precio original guardado"})
				}
			}
		}
		if changed {
			updates = append(updates, u)
		}
	}
	return updates, issues, nil
}

func livePrice(p *entity.Product, pt entity.PriceType) decimal.Decimal {
	if pt == entity.PriceTypeWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

func storedOriginal(p *entity.Product, pt entity.PriceType) (decimal.Decimal, bool) {
	if pt == entity.PriceTypeWholesale {
		return p.OriginalWholesalePrice.Decimal, p.OriginalWholesalePrice.Valid
	}
	return p.OriginalRetailPrice.Decimal, p.OriginalRetailPrice.Valid
}

func setPrice(u *entity.ProductPriceUpdate, pt entity.PriceType, v decimal.Decimal) {
	if pt == entity.PriceTypeWholesale {
		u.WholesalePrice = &v
	} else {
		u.RetailPrice = &v
	}
}

func setOriginal(u *entity.ProductPriceUpdate, pt entity.PriceType, v decimal.Decimal) {
	if pt == entity.PriceTypeWholesale {
		u.OriginalWholesalePrice = &v
	} else {
		u.OriginalRetailPrice = &v
	}
}
