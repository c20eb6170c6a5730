package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s *Store
}

// Create inserta la cabecera; SaleDate cero toma el reloj del almacén.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.CustomerName == "" || !sale.PaymentStatus.Valid() {
		return fmt.Errorf("insert sale: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	sale.ID = r.s.nextID()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.CreatedAt, sale.UpdatedAt = now, now
	stored := *sale
	stored.Items = nil
	r.s.data.sales[sale.ID] = stored
	return nil
}

// AddItem exige que existan la venta y el producto.
func (r *SaleRepo) AddItem(_ context.Context, item *entity.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.sales[item.SaleID]; !ok {
		return fmt.Errorf("insert sale item: %w", domain.ErrReferenceViolation)
	}
	if _, ok := r.s.data.products[item.ProductID]; !ok {
		return fmt.Errorf("insert sale item: %w", domain.ErrReferenceViolation)
	}
	item.ID = r.s.nextID()
	r.s.data.saleItems[item.ID] = *item
	return nil
}

// GetByID devuelve la venta con sus líneas o (nil, nil).
func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.data.sales[id]
	if !ok {
		return nil, nil
	}
	sale.Items = r.items(id)
	return &sale, nil
}

// GetForUpdate equivale a GetByID.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

// List filtra por fecha, estado y cliente; más recientes primero.
func (r *SaleRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, sale := range r.s.data.sales {
		if !matchLedger(sale.SaleDate, sale.PaymentStatus, sale.CustomerName, f) {
			continue
		}
		sale := sale
		sale.Items = r.items(sale.ID)
		out = append(out, &sale)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

// ItemsBySale líneas agrupadas por venta.
func (r *SaleRepo) ItemsBySale(_ context.Context, saleIDs ...int64) (map[int64][]entity.SaleItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64][]entity.SaleItem, len(saleIDs))
	for _, id := range saleIDs {
		if items := r.items(id); len(items) > 0 {
			out[id] = items
		}
	}
	return out, nil
}

func (r *SaleRepo) items(saleID int64) []entity.SaleItem {
	var out []entity.SaleItem
	for _, it := range r.s.data.saleItems {
		if it.SaleID != saleID {
			continue
		}
		if p, ok := r.s.data.products[it.ProductID]; ok {
			it.ProductName, it.ProductUnit = p.Name, p.Unit
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdatePayment fija lo pagado y el estado.
func (r *SaleRepo) UpdatePayment(_ context.Context, id int64, paid decimal.Decimal, status entity.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update sale payment: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.data.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.PaidAmount, sale.PaymentStatus = paid, status
	sale.UpdatedAt = r.s.now()
	r.s.data.sales[id] = sale
	return nil
}

// Delete elimina la venta y sus líneas.
func (r *SaleRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.sales, id)
	for itemID, it := range r.s.data.saleItems {
		if it.SaleID == id {
			delete(r.s.data.saleItems, itemID)
		}
	}
	return nil
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct {
	s *Store
}

// Create inserta la cabecera; PurchaseDate cero toma el reloj del almacén.
func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.Purchase) error {
	if purchase.SupplierName == "" || !purchase.PaymentStatus.Valid() {
		return fmt.Errorf("insert purchase: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	purchase.ID = r.s.nextID()
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = now
	}
	purchase.CreatedAt, purchase.UpdatedAt = now, now
	stored := *purchase
	stored.Items = nil
	r.s.data.purchases[purchase.ID] = stored
	return nil
}

// AddItem exige que existan la compra y el producto.
func (r *PurchaseRepo) AddItem(_ context.Context, item *entity.PurchaseItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.purchases[item.PurchaseID]; !ok {
		return fmt.Errorf("insert purchase item: %w", domain.ErrReferenceViolation)
	}
	if _, ok := r.s.data.products[item.ProductID]; !ok {
		return fmt.Errorf("insert purchase item: %w", domain.ErrReferenceViolation)
	}
	item.ID = r.s.nextID()
	r.s.data.purchaseItems[item.ID] = *item
	return nil
}

// GetByID devuelve la compra con sus líneas o (nil, nil).
func (r *PurchaseRepo) GetByID(_ context.Context, id int64) (*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	purchase, ok := r.s.data.purchases[id]
	if !ok {
		return nil, nil
	}
	purchase.Items = r.items(id)
	return &purchase, nil
}

// GetForUpdate equivale a GetByID.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

// List filtra por fecha, estado y proveedor; más recientes primero.
func (r *PurchaseRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Purchase
	for _, purchase := range r.s.data.purchases {
		if !matchLedger(purchase.PurchaseDate, purchase.PaymentStatus, purchase.SupplierName, f) {
			continue
		}
		purchase := purchase
		purchase.Items = r.items(purchase.ID)
		out = append(out, &purchase)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

// ItemsByPurchase líneas agrupadas por compra.
func (r *PurchaseRepo) ItemsByPurchase(_ context.Context, purchaseIDs ...int64) (map[int64][]entity.PurchaseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64][]entity.PurchaseItem, len(purchaseIDs))
	for _, id := range purchaseIDs {
		if items := r.items(id); len(items) > 0 {
			out[id] = items
		}
	}
	return out, nil
}

func (r *PurchaseRepo) items(purchaseID int64) []entity.PurchaseItem {
	var out []entity.PurchaseItem
	for _, it := range r.s.data.purchaseItems {
		if it.PurchaseID != purchaseID {
			continue
		}
		if p, ok := r.s.data.products[it.ProductID]; ok {
			it.ProductName, it.ProductUnit = p.Name, p.Unit
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdatePayment fija lo pagado y el estado.
func (r *PurchaseRepo) UpdatePayment(_ context.Context, id int64, paid decimal.Decimal, status entity.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update purchase payment: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	purchase, ok := r.s.data.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	purchase.PaidAmount, purchase.PaymentStatus = paid, status
	purchase.UpdatedAt = r.s.now()
	r.s.data.purchases[id] = purchase
	return nil
}

// Delete elimina la compra y sus líneas.
func (r *PurchaseRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.purchases, id)
	for itemID, it := range r.s.data.purchaseItems {
		if it.PurchaseID == id {
			delete(r.s.data.purchaseItems, itemID)
		}
	}
	return nil
}

func matchLedger(date time.Time, status entity.PaymentStatus, party string, f repository.LedgerFilter) bool {
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.Party != "" && !strings.Contains(strings.ToLower(party), strings.ToLower(f.Party)) {
		return false
	}
	return true
}
