package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const subCategoryColumns = `id, name, description, image, category_id, created_at, updated_at`

// SubCategoryRepository implementación PostgreSQL del puerto de subcategorías.
type SubCategoryRepository struct {
	db Querier
}

// NewSubCategoryRepository crea el repositorio de subcategorías.
func NewSubCategoryRepository(db Querier) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

// Create inserta una subcategoría.
func (r *SubCategoryRepository) Create(s *entity.SubCategory) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO sub_categories (id, name, description, image, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Description, s.Image, s.CategoryID, s.CreatedAt, s.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: subcategoría %q", domain.ErrDuplicate, s.Name)
	}
	return err
}

// GetByID devuelve la subcategoría o nil si no existe.
func (r *SubCategoryRepository) GetByID(id string) (*entity.SubCategory, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+subCategoryColumns+` FROM sub_categories WHERE id = $1`, id)
	s, err := scanSubCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetByCategoryAndName devuelve la subcategoría por nombre dentro de la
// categoría, o nil si no existe.
func (r *SubCategoryRepository) GetByCategoryAndName(categoryID, name string) (*entity.SubCategory, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx,
		`SELECT `+subCategoryColumns+` FROM sub_categories WHERE category_id = $1 AND name = $2`,
		categoryID, name)
	s, err := scanSubCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// Update reescribe la subcategoría.
func (r *SubCategoryRepository) Update(s *entity.SubCategory) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE sub_categories SET name = $2, description = $3, image = $4, category_id = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Name, s.Description, s.Image, s.CategoryID, s.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: subcategoría %q", domain.ErrDuplicate, s.Name)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// ListByCategory lista las subcategorías de una categoría.
func (r *SubCategoryRepository) ListByCategory(categoryID string, limit, offset int) ([]*entity.SubCategory, int, error) {
	ctx := context.Background()

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM sub_categories WHERE category_id = $1`, categoryID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+subCategoryColumns+` FROM sub_categories WHERE category_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		categoryID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.SubCategory
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// CountProducts cuenta los productos que referencian la subcategoría.
func (r *SubCategoryRepository) CountProducts(id string) (int, error) {
	ctx := context.Background()
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE sub_category_id = $1`, id).Scan(&count)
	return count, err
}

// Delete elimina la subcategoría.
func (r *SubCategoryRepository) Delete(id string) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanSubCategory(row pgx.Row) (*entity.SubCategory, error) {
	var s entity.SubCategory
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Image, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
