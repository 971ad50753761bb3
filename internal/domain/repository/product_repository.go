package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetManyByIDs devuelve los productos encontrados; los ids inexistentes
	// simplemente no aparecen en el resultado.
	GetManyByIDs(ids []string) ([]*entity.Product, error)
	Update(product *entity.Product) error
	List(categoryID, subCategoryID string, limit, offset int) ([]*entity.Product, int, error)
	Delete(id string) error

	// ApplyOfferPricing escribe una actualización de precios que reclama el
	// producto para u.ActiveOfferID. La escritura es condicional: solo procede
	// si el producto no tiene oferta activa o ya pertenece a esa misma oferta
	// (primer escritor gana). Devuelve domain.ErrConflict si perdió la carrera.
	ApplyOfferPricing(u entity.ProductPriceUpdate) error

	// RestoreOfferPricing escribe una actualización de restauración solo si el
	// producto sigue perteneciendo a offerID. Si ya no le pertenece, es no-op.
	RestoreOfferPricing(offerID string, u entity.ProductPriceUpdate) error
}
