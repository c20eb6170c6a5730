package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDebtRequest entrada para registrar una deuda de cliente.
type CreateDebtRequest struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Status        string          `json:"status"` // vacío = pending
	Notes         string          `json:"notes"`
}

// UpdateDebtRequest actualización parcial de una deuda.
type UpdateDebtRequest struct {
	CustomerName  *string          `json:"customer_name,omitempty"`
	CustomerPhone *string          `json:"customer_phone,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Description   *string          `json:"description,omitempty"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	Status        *string          `json:"status,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// DebtFilter filtros del listado de deudas.
type DebtFilter struct {
	Status       string `json:"status"`
	CustomerName string `json:"customer_name"`
	OverdueOnly  bool   `json:"overdue_only"`
	PageRequest
}

// DebtResponse salida de una deuda. Amount es el saldo restante.
type DebtResponse struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DebtSummaryResponse totales de la cartera.
type DebtSummaryResponse struct {
	TotalDebt    decimal.Decimal `json:"total_debt"`
	PaidDebt     decimal.Decimal `json:"paid_debt"`
	PendingDebt  decimal.Decimal `json:"pending_debt"`
	OverdueDebt  decimal.Decimal `json:"overdue_debt"`
	TotalRecords int             `json:"total_records"`
}
