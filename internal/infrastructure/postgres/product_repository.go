package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const productColumns = `id, name, description, image, category_id,
	COALESCE(sub_category_id, ''), stock,
	retail_price, wholesale_price, original_retail_price, original_wholesale_price,
	has_active_offer, COALESCE(active_offer_id, ''), created_at, updated_at`

// ProductRepository implementación PostgreSQL del puerto de productos.
type ProductRepository struct {
	db Querier
}

// NewProductRepository crea el repositorio de productos sobre el pool o una transacción.
func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserta un producto.
func (r *ProductRepository) Create(p *entity.Product) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (
			id, name, description, image, category_id, sub_category_id, stock,
			retail_price, wholesale_price, original_retail_price, original_wholesale_price,
			has_active_offer, active_offer_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15)`,
		p.ID, p.Name, p.Description, p.Image, p.CategoryID, p.SubCategoryID, p.Stock,
		p.RetailPrice, p.WholesalePrice, p.OriginalRetailPrice, p.OriginalWholesalePrice,
		p.HasActiveOffer, p.ActiveOfferID, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
	}
	return err
}

// GetByID devuelve el producto o nil si no existe.
func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetManyByIDs devuelve los productos encontrados; los ids inexistentes no aparecen.
func (r *ProductRepository) GetManyByIDs(ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx := context.Background()
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Update reescribe todos los campos del producto.
func (r *ProductRepository) Update(p *entity.Product) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			name = $2, description = $3, image = $4,
			category_id = $5, sub_category_id = NULLIF($6, ''), stock = $7,
			retail_price = $8, wholesale_price = $9,
			original_retail_price = $10, original_wholesale_price = $11,
			has_active_offer = $12, active_offer_id = NULLIF($13, ''),
			updated_at = $14
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Image, p.CategoryID, p.SubCategoryID, p.Stock,
		p.RetailPrice, p.WholesalePrice, p.OriginalRetailPrice, p.OriginalWholesalePrice,
		p.HasActiveOffer, p.ActiveOfferID, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// List lista productos con filtros opcionales de categoría y subcategoría.
func (r *ProductRepository) List(categoryID, subCategoryID string, limit, offset int) ([]*entity.Product, int, error) {
	ctx := context.Background()
	where := ` WHERE ($1 = '' OR category_id = $1) AND ($2 = '' OR sub_category_id = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, categoryID, subCategoryID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products`+where+` ORDER BY name LIMIT $3 OFFSET $4`,
		categoryID, subCategoryID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina el producto.
func (r *ProductRepository) Delete(id string) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return nil
}

// ApplyOfferPricing escritura condicional que reclama el producto para la
// oferta: solo procede si el producto está libre o ya le pertenece (primer
// escritor gana). Cero filas afectadas significa carrera perdida.
func (r *ProductRepository) ApplyOfferPricing(u entity.ProductPriceUpdate) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			retail_price = COALESCE($2, retail_price),
			wholesale_price = COALESCE($3, wholesale_price),
			original_retail_price = COALESCE($4, original_retail_price),
			original_wholesale_price = COALESCE($5, original_wholesale_price),
			has_active_offer = TRUE,
			active_offer_id = $6,
			updated_at = NOW()
		WHERE id = $1 AND (has_active_offer = FALSE OR active_offer_id = $6)`,
		u.ProductID, u.RetailPrice, u.WholesalePrice,
		u.OriginalRetailPrice, u.OriginalWholesalePrice, u.ActiveOfferID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: el producto %s fue reclamado por otra oferta",
			domain.ErrConflict, u.ProductID)
	}
	return nil
}

// RestoreOfferPricing escritura de restauración condicionada a que el producto
// siga perteneciendo a la oferta; si ya no le pertenece es no-op.
func (r *ProductRepository) RestoreOfferPricing(offerID string, u entity.ProductPriceUpdate) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		UPDATE products SET
			retail_price = COALESCE($2, retail_price),
			wholesale_price = COALESCE($3, wholesale_price),
			has_active_offer = FALSE,
			active_offer_id = NULL,
			updated_at = NOW()
		WHERE id = $1 AND active_offer_id = $4`,
		u.ProductID, u.RetailPrice, u.WholesalePrice, offerID,
	)
	return err
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Image, &p.CategoryID, &p.SubCategoryID, &p.Stock,
		&p.RetailPrice, &p.WholesalePrice, &p.OriginalRetailPrice, &p.OriginalWholesalePrice,
		&p.HasActiveOffer, &p.ActiveOfferID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
