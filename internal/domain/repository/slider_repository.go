package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// SliderRepository define el puerto de persistencia para Slider (DIP).
type SliderRepository interface {
	Create(slider *entity.Slider) error
	GetByID(id string) (*entity.Slider, error)
	Update(slider *entity.Slider) error
	// ListActive sliders activos ordenados por SortOrder ascendente.
	ListActive() ([]*entity.Slider, error)
	List(limit, offset int) ([]*entity.Slider, int, error)
	Delete(id string) error
}
