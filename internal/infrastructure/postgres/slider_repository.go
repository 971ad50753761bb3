package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const sliderColumns = `id, image, alt, active, sort_order, created_at, updated_at`

// SliderRepository implementación PostgreSQL del puerto de sliders.
type SliderRepository struct {
	db Querier
}

// NewSliderRepository crea el repositorio de sliders.
func NewSliderRepository(db Querier) *SliderRepository {
	return &SliderRepository{db: db}
}

// Create inserta una diapositiva.
func (r *SliderRepository) Create(s *entity.Slider) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO sliders (id, image, alt, active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Image, s.Alt, s.Active, s.SortOrder, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID devuelve la diapositiva o nil si no existe.
func (r *SliderRepository) GetByID(id string) (*entity.Slider, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+sliderColumns+` FROM sliders WHERE id = $1`, id)
	s, err := scanSlider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// Update reescribe la diapositiva.
func (r *SliderRepository) Update(s *entity.Slider) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE sliders SET image = $2, alt = $3, active = $4, sort_order = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Image, s.Alt, s.Active, s.SortOrder, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: slider %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// ListActive diapositivas activas por orden de aparición.
func (r *SliderRepository) ListActive() ([]*entity.Slider, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx,
		`SELECT `+sliderColumns+` FROM sliders WHERE active ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSliders(rows)
}

// List lista todas las diapositivas paginadas.
func (r *SliderRepository) List(limit, offset int) ([]*entity.Slider, int, error) {
	ctx := context.Background()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sliders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+sliderColumns+` FROM sliders ORDER BY sort_order LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list, err := scanSliders(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina la diapositiva.
func (r *SliderRepository) Delete(id string) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `DELETE FROM sliders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: slider %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanSlider(row pgx.Row) (*entity.Slider, error) {
	var s entity.Slider
	err := row.Scan(&s.ID, &s.Image, &s.Alt, &s.Active, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSliders(rows pgx.Rows) ([]*entity.Slider, error) {
	var out []*entity.Slider
	for rows.Next() {
		s, err := scanSlider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
