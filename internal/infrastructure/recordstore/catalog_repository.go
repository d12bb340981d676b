// Package recordstore implementa los repositorios de catálogo sobre el RecordStore.
package recordstore

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo implementación de ProductRepository sobre la colección "products".
type ProductRepo struct {
	store repository.RecordStore
	mu    sync.Mutex
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(store repository.RecordStore) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create asigna el siguiente id y persiste el producto.
// El SKU se verifica bajo el mismo lock que la escritura: un duplicado es VALIDATION.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := repository.Load[entity.Product](ctx, r.store, repository.CollectionProducts)
	if err != nil {
		return err
	}
	for i := range list {
		if strings.EqualFold(list[i].SKU, product.SKU) {
			return domain.Validation("el SKU %q ya existe", product.SKU)
		}
	}
	product.ID = repository.NextID(list)
	list = append(list, *product)
	return repository.Save(ctx, r.store, repository.CollectionProducts, list)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	list, err := repository.Load[entity.Product](ctx, r.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, nil
}

// GetBySKU obtiene un producto por SKU (sin distinguir mayúsculas).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	list, err := repository.Load[entity.Product](ctx, r.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].SKU, sku) {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Update reemplaza el producto con el mismo ID. No hace nada si no existe.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := repository.Load[entity.Product](ctx, r.store, repository.CollectionProducts)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == product.ID {
			list[i] = *product
			return repository.Save(ctx, r.store, repository.CollectionProducts, list)
		}
	}
	return nil
}

// List lista productos con paginación; limit <= 0 devuelve todos.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	list, err := repository.Load[entity.Product](ctx, r.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(list))
	start, end := bounds(len(list), limit, offset)
	for i := start; i < end; i++ {
		out = append(out, &list[i])
	}
	return out, nil
}

// WarehouseRepo implementación de WarehouseRepository sobre la colección "warehouses".
type WarehouseRepo struct {
	store repository.RecordStore
	mu    sync.Mutex
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(store repository.RecordStore) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

// Create asigna el siguiente id y persiste la bodega.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := repository.Load[entity.Warehouse](ctx, r.store, repository.CollectionWarehouses)
	if err != nil {
		return err
	}
	warehouse.ID = repository.NextID(list)
	list = append(list, *warehouse)
	return repository.Save(ctx, r.store, repository.CollectionWarehouses, list)
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	list, err := repository.Load[entity.Warehouse](ctx, r.store, repository.CollectionWarehouses)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Update reemplaza la bodega con el mismo ID. No hace nada si no existe.
func (r *WarehouseRepo) Update(ctx context.Context, warehouse *entity.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := repository.Load[entity.Warehouse](ctx, r.store, repository.CollectionWarehouses)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == warehouse.ID {
			list[i] = *warehouse
			return repository.Save(ctx, r.store, repository.CollectionWarehouses, list)
		}
	}
	return nil
}

// List lista bodegas con paginación; limit <= 0 devuelve todas.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	list, err := repository.Load[entity.Warehouse](ctx, r.store, repository.CollectionWarehouses)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Warehouse, 0, len(list))
	start, end := bounds(len(list), limit, offset)
	for i := start; i < end; i++ {
		out = append(out, &list[i])
	}
	return out, nil
}

// bounds devuelve el rango [start, end) de una página sobre n elementos; limit <= 0 no acota.
func bounds(n, limit, offset int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end = n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
