package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DebtSummary totales agregados de la cartera de deudas.
type DebtSummary struct {
	Total        decimal.Decimal
	Paid         decimal.Decimal
	Pending      decimal.Decimal // pending + partial
	Overdue      decimal.Decimal
	TotalRecords int
}

// DebtRepository define el puerto de persistencia para Debt.
type DebtRepository interface {
	Create(ctx context.Context, debt *entity.Debt) error
	GetByID(ctx context.Context, id int64) (*entity.Debt, error)
	List(ctx context.Context, filter DebtFilter) ([]*entity.Debt, error)
	Update(ctx context.Context, debt *entity.Debt) error
	Delete(ctx context.Context, id int64) error
	// ApplyPayment descuenta amount del saldo en una sola operación atómica (saldo mínimo cero;
	// paid si llega a cero, partial si no). Devuelve (nil, nil) si la deuda no existe o ya estaba pagada.
	ApplyPayment(ctx context.Context, id int64, amount decimal.Decimal) (*entity.Debt, error)
	// MarkOverdue pasa a overdue las deudas pending/partial con due_date < asOf. Devuelve cuántas cambiaron.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	Summary(ctx context.Context) (*DebtSummary, error)
}
