package ledger

import (
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ResolvePaymentStatus deriva el estado de cobro a partir del total y lo pagado.
// paid >= total (y total > 0) → paid; paid > 0 → partial; en otro caso → pending.
func ResolvePaymentStatus(total, paid decimal.Decimal) entity.PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total) && paid.GreaterThan(decimal.Zero):
		return entity.PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusPending
	}
}

// ApplyPayment suma un abono a lo ya pagado de una venta o compra.
// El nuevo pagado se topa en total, así paid_amount nunca supera total_amount.
func ApplyPayment(total, paid, amount decimal.Decimal) (decimal.Decimal, entity.PaymentStatus) {
	newPaid := paid.Add(amount)
	if newPaid.GreaterThanOrEqual(total) {
		return total, entity.PaymentStatusPaid
	}
	if newPaid.GreaterThan(decimal.Zero) {
		return newPaid, entity.PaymentStatusPartial
	}
	return newPaid, entity.PaymentStatusPending
}

// ApplyDebtPayment descuenta un abono del saldo de una deuda.
// Saldo en cero → paid; saldo reducido → partial; si no cambia se conserva el estado actual.
func ApplyDebtPayment(remaining, amount decimal.Decimal, current entity.PaymentStatus) (decimal.Decimal, entity.PaymentStatus) {
	next := remaining.Sub(amount)
	if next.LessThan(decimal.Zero) {
		next = decimal.Zero
	}
	switch {
	case next.IsZero():
		return next, entity.PaymentStatusPaid
	case next.LessThan(remaining):
		return next, entity.PaymentStatusPartial
	default:
		return next, current
	}
}
