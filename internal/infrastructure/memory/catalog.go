package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s *Store
}

// Create inserta el producto aplicando los CHECK de la tabla.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.Name == "" || p.Brand == "" || p.Unit == "" || !p.Type.Valid() {
		return fmt.Errorf("insert product: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	p.ID = r.s.nextID()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.data.products[p.ID] = *p
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate equivale a GetByID; el bloqueo lo da la serialización de transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List filtra por tipo y búsqueda en nombre o marca, ordenado por nombre.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, p := range r.s.data.products {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

// ListLowStock productos con stock_quantity < minimum_stock.
func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.data.products {
		if p.IsLowStock() {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update reescribe el producto conservando stock y created_at; updated_at lo fija el "trigger".
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if p.Name == "" || p.Brand == "" || p.Unit == "" || !p.Type.Valid() {
		return fmt.Errorf("update product: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = cur.StockQuantity
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.data.products[p.ID] = *p
	return nil
}

// Delete falla con ErrReferenceViolation si alguna línea referencia el producto.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, it := range r.s.data.saleItems {
		if it.ProductID == id {
			return fmt.Errorf("delete product: %w", domain.ErrReferenceViolation)
		}
	}
	for _, it := range r.s.data.purchaseItems {
		if it.ProductID == id {
			return fmt.Errorf("delete product: %w", domain.ErrReferenceViolation)
		}
	}
	delete(r.s.data.products, id)
	return nil
}

// AdjustStock suma delta sin validar negativos.
func (r *ProductRepo) AdjustStock(_ context.Context, id int64, delta decimal.Decimal) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.StockQuantity = p.StockQuantity.Add(delta)
	p.UpdatedAt = r.s.now()
	r.s.data.products[id] = p
	return &p, nil
}

func page[T any](list []T, limit, offset int) []T {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
