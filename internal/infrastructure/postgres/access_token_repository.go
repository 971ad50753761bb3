package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// AccessTokenRepository implementación PostgreSQL del puerto de tokens de
// acceso mayorista.
type AccessTokenRepository struct {
	db Querier
}

// NewAccessTokenRepository crea el repositorio de tokens de acceso.
func NewAccessTokenRepository(db Querier) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

// Create inserta una solicitud de acceso.
func (r *AccessTokenRepository) Create(t *entity.WholesaleAccessToken) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO wholesale_access_tokens (
			id, email, otp_hash, expires_at, used_at, request_ip, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Email, t.OTPHash, t.ExpiresAt, t.UsedAt, t.RequestIP, t.UserAgent, t.CreatedAt,
	)
	return err
}

// GetLatestPending devuelve el token pendiente más reciente del email, o nil.
func (r *AccessTokenRepository) GetLatestPending(email string, now time.Time) (*entity.WholesaleAccessToken, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `
		SELECT id, email, otp_hash, expires_at, used_at, request_ip, user_agent, created_at
		FROM wholesale_access_tokens
		WHERE email = $1 AND used_at IS NULL AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1`,
		email, now)

	var t entity.WholesaleAccessToken
	err := row.Scan(&t.ID, &t.Email, &t.OTPHash, &t.ExpiresAt, &t.UsedAt,
		&t.RequestIP, &t.UserAgent, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkUsed marca el token como consumido.
func (r *AccessTokenRepository) MarkUsed(id string, usedAt time.Time) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx,
		`UPDATE wholesale_access_tokens SET used_at = $2 WHERE id = $1`, id, usedAt)
	return err
}

// DeleteExpired elimina tokens vencidos y devuelve cuántos borró.
func (r *AccessTokenRepository) DeleteExpired(now time.Time) (int, error) {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx,
		`DELETE FROM wholesale_access_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
