package repository

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// OfferListFilter filtros opcionales para listar ofertas.
type OfferListFilter struct {
	Active    *bool
	CurrentAt *time.Time // solo ofertas cuya ventana contiene el instante
}

// OfferRepository define el puerto de persistencia para Offer (DIP).
type OfferRepository interface {
	Create(offer *entity.Offer) error
	GetByID(id string) (*entity.Offer, error)
	List(filter OfferListFilter, limit, offset int) ([]*entity.Offer, int, error)
	Update(offer *entity.Offer) error
	// SetActive cambia solo la bandera active (camino de expiración).
	SetActive(id string, active bool, updatedAt time.Time) error
	// ListExpired devuelve ofertas con active=true y endDate < now.
	ListExpired(now time.Time) ([]*entity.Offer, error)
	Delete(id string) error
}
