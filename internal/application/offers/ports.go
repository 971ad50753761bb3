package offers

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta el callback con repositorios atados a una misma
// transacción. El commit ocurre solo si fn devuelve nil; así todas las
// escrituras de productos y el registro de la oferta son todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		offerRepo repository.OfferRepository,
		productRepo repository.ProductRepository,
	) error) error
}
