package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

const offerColumns = `id, title, description, discount, start_date, end_date,
	product_ids, price_types, active, created_at, updated_at`

// OfferRepository implementación PostgreSQL del puerto de ofertas.
type OfferRepository struct {
	db Querier
}

// NewOfferRepository crea el repositorio de ofertas sobre el pool o una transacción.
func NewOfferRepository(db Querier) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create inserta una oferta.
func (r *OfferRepository) Create(o *entity.Offer) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO offers (
			id, title, description, discount, start_date, end_date,
			product_ids, price_types, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.Title, o.Description, o.Discount, o.StartDate, o.EndDate,
		o.ProductIDs, priceTypesToStrings(o.PriceTypes), o.Active, o.CreatedAt, o.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: oferta %s", domain.ErrDuplicate, o.ID)
	}
	return err
}

// GetByID devuelve la oferta o nil si no existe.
func (r *OfferRepository) GetByID(id string) (*entity.Offer, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// List lista ofertas con filtros opcionales de actividad y vigencia.
func (r *OfferRepository) List(filter repository.OfferListFilter, limit, offset int) ([]*entity.Offer, int, error) {
	ctx := context.Background()

	where := ` WHERE ($1::boolean IS NULL OR active = $1)
		AND ($2::timestamptz IS NULL OR (active AND start_date <= $2 AND end_date >= $2))`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM offers`+where,
		filter.Active, filter.CurrentAt).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+offerColumns+` FROM offers`+where+` ORDER BY start_date DESC LIMIT $3 OFFSET $4`,
		filter.Active, filter.CurrentAt, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// Update reescribe todos los campos de la oferta.
func (r *OfferRepository) Update(o *entity.Offer) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE offers SET
			title = $2, description = $3, discount = $4,
			start_date = $5, end_date = $6,
			product_ids = $7, price_types = $8, active = $9, updated_at = $10
		WHERE id = $1`,
		o.ID, o.Title, o.Description, o.Discount, o.StartDate, o.EndDate,
		o.ProductIDs, priceTypesToStrings(o.PriceTypes), o.Active, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, o.ID)
	}
	return nil
}

// SetActive cambia solo la bandera active.
func (r *OfferRepository) SetActive(id string, active bool, updatedAt time.Time) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx,
		`UPDATE offers SET active = $2, updated_at = $3 WHERE id = $1`,
		id, active, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
	}
	return nil
}

// ListExpired devuelve ofertas activas cuya ventana ya terminó.
func (r *OfferRepository) ListExpired(now time.Time) ([]*entity.Offer, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE active AND end_date < $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Delete elimina la oferta.
func (r *OfferRepository) Delete(id string) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: oferta %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanOffer(row pgx.Row) (*entity.Offer, error) {
	var o entity.Offer
	var types []string
	err := row.Scan(
		&o.ID, &o.Title, &o.Description, &o.Discount, &o.StartDate, &o.EndDate,
		&o.ProductIDs, &types, &o.Active, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.PriceTypes = make([]entity.PriceType, 0, len(types))
	for _, t := range types {
		o.PriceTypes = append(o.PriceTypes, entity.PriceType(t))
	}
	return &o, nil
}

func priceTypesToStrings(types []entity.PriceType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
