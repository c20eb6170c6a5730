package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStatsResponse panel principal.
type DashboardStatsResponse struct {
	TotalSales       decimal.Decimal    `json:"total_sales"`     // ventas pagadas
	TotalPurchases   decimal.Decimal    `json:"total_purchases"` // compras pagadas
	TotalDebts       decimal.Decimal    `json:"total_debts"`     // deudas abiertas
	TotalProducts    int                `json:"total_products"`
	LowStockProducts int                `json:"low_stock_products"`
	RecentSales      []SaleResponse     `json:"recent_sales"`
	RecentPurchases  []PurchaseResponse `json:"recent_purchases"`
	PendingDebts     []DebtResponse     `json:"pending_debts"`
}

// SalesTrendPoint ventas de un día en la tendencia.
type SalesTrendPoint struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
	Paid  decimal.Decimal `json:"paid"`
	Count int             `json:"count"`
}

// TopProductResponse producto más vendido.
type TopProductResponse struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
}

// MonthlySummaryResponse resumen del mes. Profit = ventas pagadas - compras pagadas.
type MonthlySummaryResponse struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Label         string          `json:"label"`
	Sales         decimal.Decimal `json:"sales"`
	PaidSales     decimal.Decimal `json:"paid_sales"`
	Purchases     decimal.Decimal `json:"purchases"`
	PaidPurchases decimal.Decimal `json:"paid_purchases"`
	NewDebts      decimal.Decimal `json:"new_debts"`
	SalesCount    int             `json:"sales_count"`
	Profit        decimal.Decimal `json:"profit"`
}
