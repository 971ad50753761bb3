package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const categoryColumns = `id, name, code, description, image, created_at, updated_at`

// CategoryRepository implementación PostgreSQL del puerto de categorías.
type CategoryRepository struct {
	db Querier
}

// NewCategoryRepository crea el repositorio de categorías.
func NewCategoryRepository(db Querier) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserta una categoría.
func (r *CategoryRepository) Create(c *entity.Category) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, code, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Code, c.Description, c.Image, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
	}
	return err
}

// GetByID devuelve la categoría o nil si no existe.
func (r *CategoryRepository) GetByID(id string) (*entity.Category, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// GetByName devuelve la categoría por nombre o nil si no existe.
func (r *CategoryRepository) GetByName(name string) (*entity.Category, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// Update reescribe la categoría.
func (r *CategoryRepository) Update(c *entity.Category) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $2, code = $3, description = $4, image = $5, updated_at = $6
		WHERE id = $1`,
		c.ID, c.Name, c.Code, c.Description, c.Image, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, c.ID)
	}
	return nil
}

// List lista categorías paginadas por nombre.
func (r *CategoryRepository) List(limit, offset int) ([]*entity.Category, int, error) {
	ctx := context.Background()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// CountProducts cuenta los productos que referencian la categoría.
func (r *CategoryRepository) CountProducts(id string) (int, error) {
	ctx := context.Background()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count)
	return count, err
}

// Delete elimina la categoría.
func (r *CategoryRepository) Delete(id string) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
