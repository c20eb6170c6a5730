package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, customer_name, COALESCE(customer_phone, ''), COALESCE(customer_address, ''),
	total_amount, paid_amount, payment_status, COALESCE(notes, ''), sale_date, created_at, updated_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CustomerName, &s.CustomerPhone, &s.CustomerAddress,
		&s.TotalAmount, &s.PaidAmount, &s.PaymentStatus, &s.Notes, &s.SaleDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera de la venta. SaleDate cero toma now() en la base.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (customer_name, customer_phone, customer_address, total_amount, paid_amount, payment_status, notes, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING id, sale_date, created_at, updated_at`
	var saleDate any
	if !sale.SaleDate.IsZero() {
		saleDate = sale.SaleDate
	}
	err := r.q.QueryRow(ctx, query,
		sale.CustomerName, nullable(sale.CustomerPhone), nullable(sale.CustomerAddress),
		sale.TotalAmount, sale.PaidAmount, sale.PaymentStatus, nullable(sale.Notes), saleDate,
	).Scan(&sale.ID, &sale.SaleDate, &sale.CreatedAt, &sale.UpdatedAt)
	return translate("insert sale", err)
}

// AddItem inserta una línea de venta. Falla con ErrReferenceViolation si la venta o el producto no existen.
func (r *SaleRepo) AddItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	return translate("insert sale item", err)
}

// GetByID obtiene la venta con sus líneas. Devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta bloqueando la fila (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query string, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.ItemsBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items[id]
	return s, nil
}

// List lista ventas (más recientes primero) con sus líneas.
func (r *SaleRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.Sale, error) {
	where, args := ledgerWhere("sale_date", "customer_name", f)
	query := `SELECT ` + saleColumns + ` FROM sales` + where
	args = append(args, limitOrDefault(f.Limit), f.Offset)
	query += fmt.Sprintf(" ORDER BY sale_date DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	var ids []int64
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.ItemsBySale(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, nil
}

// ItemsBySale devuelve las líneas (con nombre y unidad del producto) agrupadas por venta.
func (r *SaleRepo) ItemsBySale(ctx context.Context, saleIDs ...int64) (map[int64][]entity.SaleItem, error) {
	query := `
		SELECT si.id, si.sale_id, si.product_id, si.quantity, si.unit_price, si.total_price, p.name, p.unit
		FROM sale_items si JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.sale_id, si.id`
	rows, err := r.q.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	out := make(map[int64][]entity.SaleItem, len(saleIDs))
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice,
			&it.ProductName, &it.ProductUnit); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out[it.SaleID] = append(out[it.SaleID], it)
	}
	return out, rows.Err()
}

// UpdatePayment fija lo pagado y el estado de cobro.
func (r *SaleRepo) UpdatePayment(ctx context.Context, id int64, paid decimal.Decimal, status entity.PaymentStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET paid_amount = $2, payment_status = $3 WHERE id = $1`, id, paid, status)
	if err != nil {
		return translate("update sale payment", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta; sale_items se borran en cascada.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return translate("delete sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ledgerWhere arma el WHERE común de ventas y compras.
func ledgerWhere(dateCol, partyCol string, f repository.LedgerFilter) (string, []any) {
	var clauses []string
	var args []any
	if f.From != nil {
		args = append(args, *f.From)
		clauses = append(clauses, fmt.Sprintf("%s >= $%d", dateCol, len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		clauses = append(clauses, fmt.Sprintf("%s <= $%d", dateCol, len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if f.Party != "" {
		args = append(args, "%"+f.Party+"%")
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", partyCol, len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
