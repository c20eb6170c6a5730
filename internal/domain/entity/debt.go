package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt obligación de un cliente, independiente de cualquier Sale (sin FK a sales).
// Amount es el saldo restante: los abonos lo reducen.
type Debt struct {
	ID            int64
	CustomerName  string
	CustomerPhone string
	Amount        decimal.Decimal
	Description   string
	DueDate       *time.Time
	Status        PaymentStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPastDue indica si la deuda sigue abierta con fecha de vencimiento anterior a asOf.
func (d *Debt) IsPastDue(asOf time.Time) bool {
	if d.DueDate == nil {
		return false
	}
	if d.Status != PaymentStatusPending && d.Status != PaymentStatusPartial {
		return false
	}
	return d.DueDate.Before(asOf)
}
