package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de una compra a proveedor (reposición de stock).
type Purchase struct {
	ID              int64
	SupplierName    string
	SupplierPhone   string
	SupplierAddress string
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentStatus   PaymentStatus
	Notes           string
	PurchaseDate    time.Time
	Items           []PurchaseItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PurchaseItem línea de compra, simétrica a SaleItem.
type PurchaseItem struct {
	ID          int64
	PurchaseID  int64
	ProductID   int64
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	ProductName string
	ProductUnit string
}

// Balance devuelve el saldo pendiente con el proveedor.
func (p *Purchase) Balance() decimal.Decimal {
	return p.TotalAmount.Sub(p.PaidAmount)
}
