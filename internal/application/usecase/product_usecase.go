package usecase

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja solo vía ledger.
type ProductUseCase struct {
	repo  repository.ProductRepository
	clock clockwork.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, clock clockwork.Clock) *ProductUseCase {
	return &ProductUseCase{repo: repo, clock: clock}
}

// Create crea un nuevo producto. El SKU es único sin distinguir mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.Validation("sku y name son requeridos")
	}
	if err := validateProductNumbers(in.ReorderPoint, in.UnitCost); err != nil {
		return nil, err
	}
	now := uc.clock.Now().UTC()
	product := &entity.Product{
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		ReorderPoint: in.ReorderPoint,
		UnitCost:     in.UnitCost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetBySKU busca un producto por SKU sin distinguir mayúsculas; (nil, nil) si no existe.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto; (nil, nil) si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Validation("name no puede quedar vacío")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ReorderPoint != nil {
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.UnitCost != nil {
		product.UnitCost = *in.UnitCost
	}
	if err := validateProductNumbers(product.ReorderPoint, product.UnitCost); err != nil {
		return nil, err
	}
	product.UpdatedAt = uc.clock.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	all, err := uc.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(all)},
	}, nil
}

func validateProductNumbers(reorderPoint int64, unitCost decimal.Decimal) error {
	if reorderPoint < 0 {
		return domain.Validation("reorder_point no puede ser negativo")
	}
	if unitCost.IsNegative() {
		return domain.Validation("unit_cost no puede ser negativo")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		ReorderPoint: p.ReorderPoint,
		UnitCost:     p.UnitCost,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
