package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DashboardTotals agregados del panel principal.
type DashboardTotals struct {
	PaidSales        decimal.Decimal
	PaidPurchases    decimal.Decimal
	OpenDebts        decimal.Decimal
	TotalProducts    int
	LowStockProducts int
}

// DailySales agregado de ventas de un día.
type DailySales struct {
	Day   time.Time // fecha de pared del día en la zona pedida; sólo importan año, mes y día
	Total decimal.Decimal
	Paid  decimal.Decimal
	Count int
}

// TopProduct producto con su cantidad vendida acumulada.
type TopProduct struct {
	ProductID     int64
	Name          string
	Type          entity.ProductType
	TotalQuantity decimal.Decimal
}

// PeriodTotals totales de ventas, compras y deudas en un rango [From, To).
type PeriodTotals struct {
	Sales         decimal.Decimal
	PaidSales     decimal.Decimal
	Purchases     decimal.Decimal
	PaidPurchases decimal.Decimal
	NewDebts      decimal.Decimal
	SalesCount    int
}

// AnalyticsRepository consultas de solo lectura para el panel.
type AnalyticsRepository interface {
	DashboardTotals(ctx context.Context) (*DashboardTotals, error)
	RecentSales(ctx context.Context, limit int) ([]*entity.Sale, error)
	RecentPurchases(ctx context.Context, limit int) ([]*entity.Purchase, error)
	OpenDebts(ctx context.Context, limit int) ([]*entity.Debt, error)
	// SalesByDay agrupa por día calendario en la zona IANA tz (ej. "America/Bogota").
	SalesByDay(ctx context.Context, from, to time.Time, tz string) ([]DailySales, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	PeriodTotals(ctx context.Context, from, to time.Time) (*PeriodTotals, error)
}
