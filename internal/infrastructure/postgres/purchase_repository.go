package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, supplier_name, COALESCE(supplier_phone, ''), COALESCE(supplier_address, ''),
	total_amount, paid_amount, payment_status, COALESCE(notes, ''), purchase_date, created_at, updated_at`

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var s entity.Purchase
	err := row.Scan(&s.ID, &s.SupplierName, &s.SupplierPhone, &s.SupplierAddress,
		&s.TotalAmount, &s.PaidAmount, &s.PaymentStatus, &s.Notes, &s.PurchaseDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera de la compra. PurchaseDate cero toma now() en la base.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (supplier_name, supplier_phone, supplier_address, total_amount, paid_amount, payment_status, notes, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING id, purchase_date, created_at, updated_at`
	var purchaseDate any
	if !purchase.PurchaseDate.IsZero() {
		purchaseDate = purchase.PurchaseDate
	}
	err := r.q.QueryRow(ctx, query,
		purchase.SupplierName, nullable(purchase.SupplierPhone), nullable(purchase.SupplierAddress),
		purchase.TotalAmount, purchase.PaidAmount, purchase.PaymentStatus, nullable(purchase.Notes), purchaseDate,
	).Scan(&purchase.ID, &purchase.PurchaseDate, &purchase.CreatedAt, &purchase.UpdatedAt)
	return translate("insert purchase", err)
}

// AddItem inserta una línea de compra. Falla con ErrReferenceViolation si la compra o el producto no existen.
func (r *PurchaseRepo) AddItem(ctx context.Context, item *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.PurchaseID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	return translate("insert purchase item", err)
}

// GetByID obtiene la compra con sus líneas. Devuelve (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate obtiene la compra bloqueando la fila (SELECT FOR UPDATE).
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) get(ctx context.Context, query string, id int64) (*entity.Purchase, error) {
	s, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.ItemsByPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items[id]
	return s, nil
}

// List lista compras (más recientes primero) con sus líneas.
func (r *PurchaseRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.Purchase, error) {
	where, args := ledgerWhere("purchase_date", "supplier_name", f)
	query := `SELECT ` + purchaseColumns + ` FROM purchases` + where
	args = append(args, limitOrDefault(f.Limit), f.Offset)
	query += fmt.Sprintf(" ORDER BY purchase_date DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	var list []*entity.Purchase
	var ids []int64
	for rows.Next() {
		s, err := scanPurchase(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.ItemsByPurchase(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, nil
}

// ItemsByPurchase devuelve las líneas (con nombre y unidad del producto) agrupadas por compra.
func (r *PurchaseRepo) ItemsByPurchase(ctx context.Context, purchaseIDs ...int64) (map[int64][]entity.PurchaseItem, error) {
	query := `
		SELECT si.id, si.purchase_id, si.product_id, si.quantity, si.unit_price, si.total_price, p.name, p.unit
		FROM purchase_items si JOIN products p ON p.id = si.product_id
		WHERE si.purchase_id = ANY($1)
		ORDER BY si.purchase_id, si.id`
	rows, err := r.q.Query(ctx, query, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	out := make(map[int64][]entity.PurchaseItem, len(purchaseIDs))
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice,
			&it.ProductName, &it.ProductUnit); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		out[it.PurchaseID] = append(out[it.PurchaseID], it)
	}
	return out, rows.Err()
}

// UpdatePayment fija lo pagado al proveedor y el estado de pago.
func (r *PurchaseRepo) UpdatePayment(ctx context.Context, id int64, paid decimal.Decimal, status entity.PaymentStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchases SET paid_amount = $2, payment_status = $3 WHERE id = $1`, id, paid, status)
	if err != nil {
		return translate("update purchase payment", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la compra; purchase_items se borran en cascada.
func (r *PurchaseRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return translate("delete purchase", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
