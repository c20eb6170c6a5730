package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel de la tienda.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// DashboardTotals suma ventas y compras pagadas, deudas abiertas y conteos de productos.
// Un producto cuenta como bajo de stock cuando stock_quantity <= minimum_stock.
func (r *AnalyticsRepo) DashboardTotals(ctx context.Context) (*repository.DashboardTotals, error) {
	const query = `
	SELECT
	    (SELECT COALESCE(SUM(total_amount), 0) FROM sales     WHERE payment_status = 'paid'),
	    (SELECT COALESCE(SUM(total_amount), 0) FROM purchases WHERE payment_status = 'paid'),
	    (SELECT COALESCE(SUM(amount), 0)       FROM debts     WHERE status IN ('pending', 'partial', 'overdue')),
	    (SELECT COUNT(*) FROM products),
	    (SELECT COUNT(*) FROM products WHERE stock_quantity <= minimum_stock)`

	var t repository.DashboardTotals
	if err := r.q.QueryRow(ctx, query).Scan(
		&t.PaidSales, &t.PaidPurchases, &t.OpenDebts, &t.TotalProducts, &t.LowStockProducts,
	); err != nil {
		return nil, fmt.Errorf("analytics.DashboardTotals: %w", err)
	}
	return &t, nil
}

// RecentSales últimas ventas con sus líneas.
func (r *AnalyticsRepo) RecentSales(ctx context.Context, limit int) ([]*entity.Sale, error) {
	return NewSaleRepository(r.q).List(ctx, repository.LedgerFilter{Limit: limit})
}

// RecentPurchases últimas compras con sus líneas.
func (r *AnalyticsRepo) RecentPurchases(ctx context.Context, limit int) ([]*entity.Purchase, error) {
	return NewPurchaseRepository(r.q).List(ctx, repository.LedgerFilter{Limit: limit})
}

// OpenDebts deudas sin saldar, las de vencimiento más próximo primero.
func (r *AnalyticsRepo) OpenDebts(ctx context.Context, limit int) ([]*entity.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts
		WHERE status IN ('pending', 'partial', 'overdue')
		ORDER BY due_date ASC NULLS LAST, id ASC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("analytics.OpenDebts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("analytics.OpenDebts scan: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SalesByDay agrupa las ventas de [from, to) por día calendario en la zona tz, sin depender
// de la zona de la sesión. Los días sin ventas no aparecen.
func (r *AnalyticsRepo) SalesByDay(ctx context.Context, from, to time.Time, tz string) ([]repository.DailySales, error) {
	const query = `
	SELECT
	    date_trunc('day', sale_date AT TIME ZONE $3)                             AS day,
	    COALESCE(SUM(total_amount), 0)                                            AS total,
	    COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN total_amount ELSE 0 END), 0) AS paid,
	    COUNT(*)                                                                  AS sales
	FROM sales
	WHERE sale_date >= $1 AND sale_date < $2
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.q.Query(ctx, query, from, to, tz)
	if err != nil {
		return nil, fmt.Errorf("analytics.SalesByDay: %w", err)
	}
	defer rows.Close()

	var out []repository.DailySales
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Day, &d.Total, &d.Paid, &d.Count); err != nil {
			return nil, fmt.Errorf("analytics.SalesByDay scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TopProducts productos con mayor cantidad vendida acumulada.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT p.id, p.name, p.type, SUM(si.quantity) AS total_quantity
	FROM sale_items si
	JOIN products p ON p.id = si.product_id
	GROUP BY p.id, p.name, p.type
	ORDER BY total_quantity DESC, p.id ASC
	LIMIT $1`

	rows, err := r.q.Query(ctx, query, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProduct
	for rows.Next() {
		var t repository.TopProduct
		if err := rows.Scan(&t.ProductID, &t.Name, &t.Type, &t.TotalQuantity); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PeriodTotals totales de ventas, compras y deudas nuevas en [from, to).
func (r *AnalyticsRepo) PeriodTotals(ctx context.Context, from, to time.Time) (*repository.PeriodTotals, error) {
	const query = `
	SELECT
	    (SELECT COALESCE(SUM(total_amount), 0) FROM sales
	        WHERE sale_date >= $1 AND sale_date < $2),
	    (SELECT COALESCE(SUM(total_amount), 0) FROM sales
	        WHERE sale_date >= $1 AND sale_date < $2 AND payment_status = 'paid'),
	    (SELECT COALESCE(SUM(total_amount), 0) FROM purchases
	        WHERE purchase_date >= $1 AND purchase_date < $2),
	    (SELECT COALESCE(SUM(total_amount), 0) FROM purchases
	        WHERE purchase_date >= $1 AND purchase_date < $2 AND payment_status = 'paid'),
	    (SELECT COALESCE(SUM(amount), 0) FROM debts
	        WHERE created_at >= $1 AND created_at < $2),
	    (SELECT COUNT(*) FROM sales
	        WHERE sale_date >= $1 AND sale_date < $2)`

	var t repository.PeriodTotals
	if err := r.q.QueryRow(ctx, query, from, to).Scan(
		&t.Sales, &t.PaidSales, &t.Purchases, &t.PaidPurchases, &t.NewDebts, &t.SalesCount,
	); err != nil {
		return nil, fmt.Errorf("analytics.PeriodTotals: %w", err)
	}
	return &t, nil
}
