package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. Los precios de un producto
// reclamado por una oferta activa pertenecen a la oferta: editarlos por esta
// vía se rechaza hasta que la oferta lo libere.
type ProductUseCase struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subCategories repository.SubCategoryRepository
}

// NewProductUseCase crea el caso de uso de productos.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	subCategories repository.SubCategoryRepository,
) *ProductUseCase {
	return &ProductUseCase{
		products:      products,
		categories:    categories,
		subCategories: subCategories,
	}
}

// Create crea un producto. Los precios originales se estampan con el precio
// vigente: son la base de restauración de las ofertas futuras.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
	}
	if in.RetailPrice.IsNegative() || in.WholesalePrice.IsNegative() {
		return nil, fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrValidation)
	}
	if err := uc.checkMembership(in.CategoryID, in.SubCategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Product{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Description:    in.Description,
		Image:          in.Image,
		CategoryID:     in.CategoryID,
		SubCategoryID:  in.SubCategoryID,
		Stock:          in.Stock,
		RetailPrice:    in.RetailPrice,
		WholesalePrice: in.WholesalePrice,
		OriginalRetailPrice:    decimal.NewNullDecimal(in.RetailPrice),
		OriginalWholesalePrice: decimal.NewNullDecimal(in.WholesalePrice),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(p, true)
	return &resp, nil
}

// GetByID devuelve un producto. Los campos mayoristas se omiten sin acceso
// mayorista.
func (uc *ProductUseCase) GetByID(id string, includeWholesale bool) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	resp := dto.ToProductResponse(p, includeWholesale)
	return &resp, nil
}

// List lista productos filtrados por categoría y subcategoría opcionales.
func (uc *ProductUseCase) List(categoryID, subCategoryID string, limit, offset int, includeWholesale bool) (*dto.ProductListResponse, error) {
	list, total, err := uc.products.List(categoryID, subCategoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p, includeWholesale))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update aplica un parche al producto. Con una oferta activa dueña del
// producto los campos de precio se rechazan; sin oferta, editar un precio
// actualiza también su original para mantener la base de restauración al día.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}

	touchesPrices := in.RetailPrice != nil || in.WholesalePrice != nil
	if touchesPrices && p.HasActiveOffer {
		return nil, fmt.Errorf("%w: los precios del producto están controlados por la oferta %s",
			domain.ErrConflict, p.ActiveOfferID)
	}
	if in.RetailPrice != nil {
		if in.RetailPrice.IsNegative() {
			return nil, fmt.Errorf("%w: retailPrice no puede ser negativo", domain.ErrValidation)
		}
		p.RetailPrice = *in.RetailPrice
		p.OriginalRetailPrice = decimal.NewNullDecimal(*in.RetailPrice)
	}
	if in.WholesalePrice != nil {
		if in.WholesalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: wholesalePrice no puede ser negativo", domain.ErrValidation)
		}
		p.WholesalePrice = *in.WholesalePrice
		p.OriginalWholesalePrice = decimal.NewNullDecimal(*in.WholesalePrice)
	}

	if in.CategoryID != nil || in.SubCategoryID != nil {
		categoryID := p.CategoryID
		subCategoryID := p.SubCategoryID
		if in.CategoryID != nil {
			categoryID = *in.CategoryID
		}
		if in.SubCategoryID != nil {
			subCategoryID = *in.SubCategoryID
		}
		if err := uc.checkMembership(categoryID, subCategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
		p.SubCategoryID = subCategoryID
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.UpdatedAt = time.Now()

	if err := uc.products.Update(p); err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(p, true)
	return &resp, nil
}

// Delete elimina un producto. Un producto reclamado por una oferta activa no
// puede eliminarse: primero hay que quitarlo de la oferta.
func (uc *ProductUseCase) Delete(id string) error {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if p.HasActiveOffer {
		return fmt.Errorf("%w: el producto está reclamado por la oferta %s",
			domain.ErrConflict, p.ActiveOfferID)
	}
	return uc.products.Delete(id)
}

// checkMembership valida que la categoría exista y que la subcategoría, si se
// indica, exista y pertenezca a esa categoría.
func (uc *ProductUseCase) checkMembership(categoryID, subCategoryID string) error {
	if categoryID == "" {
		return fmt.Errorf("%w: categoryId requerido", domain.ErrValidation)
	}
	cat, err := uc.categories.GetByID(categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	if subCategoryID == "" {
		return nil
	}
	sub, err := uc.subCategories.GetByID(subCategoryID)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, subCategoryID)
	}
	if sub.CategoryID != categoryID {
		return fmt.Errorf("%w: la subcategoría %s no pertenece a la categoría %s",
			domain.ErrValidation, subCategoryID, categoryID)
	}
	return nil
}
