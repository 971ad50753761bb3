package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// SubCategoryRepository define el puerto de persistencia para SubCategory (DIP).
type SubCategoryRepository interface {
	Create(sub *entity.SubCategory) error
	GetByID(id string) (*entity.SubCategory, error)
	GetByCategoryAndName(categoryID, name string) (*entity.SubCategory, error)
	Update(sub *entity.SubCategory) error
	ListByCategory(categoryID string, limit, offset int) ([]*entity.SubCategory, int, error)
	CountProducts(id string) (int, error)
	Delete(id string) error
}
