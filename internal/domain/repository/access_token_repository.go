package repository

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// AccessTokenRepository define el puerto de persistencia para WholesaleAccessToken (DIP).
type AccessTokenRepository interface {
	Create(token *entity.WholesaleAccessToken) error
	// GetLatestPending devuelve el token pendiente (sin usar, sin vencer) más
	// reciente para el email, o nil si no hay ninguno.
	GetLatestPending(email string, now time.Time) (*entity.WholesaleAccessToken, error)
	MarkUsed(id string, usedAt time.Time) error
	// DeleteExpired limpieza de tokens vencidos; devuelve cuántos eliminó.
	DeleteExpired(now time.Time) (int, error)
}
