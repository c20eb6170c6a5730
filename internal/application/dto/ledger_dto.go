package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest línea de venta o compra. TotalPrice es opcional: si viene debe ser quantity × unit_price.
type LineRequest struct {
	ProductID  int64           `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Notes           string          `json:"notes"`
	SaleDate        *time.Time      `json:"sale_date,omitempty"`
	Items           []LineRequest   `json:"items"`
}

// CreatePurchaseRequest entrada para registrar una compra a proveedor.
type CreatePurchaseRequest struct {
	SupplierName    string          `json:"supplier_name"`
	SupplierPhone   string          `json:"supplier_phone"`
	SupplierAddress string          `json:"supplier_address"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Notes           string          `json:"notes"`
	PurchaseDate    *time.Time      `json:"purchase_date,omitempty"`
	Items           []LineRequest   `json:"items"`
}

// PaymentRequest abono a una venta, compra o deuda.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// LedgerFilter filtros del listado de ventas o compras.
type LedgerFilter struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Status string     `json:"status"`
	Party  string     `json:"party"` // cliente o proveedor
	PageRequest
}

// LineResponse línea con datos del producto.
type LineResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductUnit string          `json:"product_unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse salida de una venta con sus líneas.
type SaleResponse struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Balance         decimal.Decimal `json:"balance"`
	PaymentStatus   string          `json:"payment_status"`
	Notes           string          `json:"notes"`
	SaleDate        time.Time       `json:"sale_date"`
	Items           []LineResponse  `json:"items"`
}

// PurchaseResponse salida de una compra con sus líneas.
type PurchaseResponse struct {
	ID              int64           `json:"id"`
	SupplierName    string          `json:"supplier_name"`
	SupplierPhone   string          `json:"supplier_phone"`
	SupplierAddress string          `json:"supplier_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Balance         decimal.Decimal `json:"balance"`
	PaymentStatus   string          `json:"payment_status"`
	Notes           string          `json:"notes"`
	PurchaseDate    time.Time       `json:"purchase_date"`
	Items           []LineResponse  `json:"items"`
}

// DailyStatsResponse resumen de ventas de un día.
type DailyStatsResponse struct {
	Date         time.Time       `json:"date"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	PaidSales    decimal.Decimal `json:"paid_sales"`
	PendingSales decimal.Decimal `json:"pending_sales"` // pending + partial
	SalesCount   int             `json:"sales_count"`
}
