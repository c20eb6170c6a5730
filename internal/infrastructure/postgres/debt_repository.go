package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DebtRepository = (*DebtRepo)(nil)

const debtColumns = `id, customer_name, COALESCE(customer_phone, ''), amount, description, due_date, status,
	COALESCE(notes, ''), created_at, updated_at`

// DebtRepo implementación de DebtRepository sobre PostgreSQL (usable con pool o tx).
type DebtRepo struct {
	q Querier
}

// NewDebtRepository construye el adaptador de deudas.
func NewDebtRepository(q Querier) *DebtRepo {
	return &DebtRepo{q: q}
}

func scanDebt(row pgx.Row) (*entity.Debt, error) {
	var d entity.Debt
	err := row.Scan(&d.ID, &d.CustomerName, &d.CustomerPhone, &d.Amount, &d.Description, &d.DueDate,
		&d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste una deuda. Status vacío toma 'pending'.
func (r *DebtRepo) Create(ctx context.Context, debt *entity.Debt) error {
	query := `
		INSERT INTO debts (customer_name, customer_phone, amount, description, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'pending'), $7)
		RETURNING id, status, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		debt.CustomerName, nullable(debt.CustomerPhone), debt.Amount, debt.Description,
		debt.DueDate, string(debt.Status), nullable(debt.Notes),
	).Scan(&debt.ID, &debt.Status, &debt.CreatedAt, &debt.UpdatedAt)
	return translate("insert debt", err)
}

// GetByID obtiene una deuda por ID. Devuelve (nil, nil) si no existe.
func (r *DebtRepo) GetByID(ctx context.Context, id int64) (*entity.Debt, error) {
	d, err := scanDebt(r.q.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

// List lista deudas (más recientes primero).
func (r *DebtRepo) List(ctx context.Context, f repository.DebtFilter) ([]*entity.Debt, error) {
	var clauses []string
	var args []any
	status := f.Status
	if f.OverdueOnly {
		status = entity.PaymentStatusOverdue
	}
	if status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CustomerName != "" {
		args = append(args, "%"+f.CustomerName+"%")
		clauses = append(clauses, fmt.Sprintf("customer_name ILIKE $%d", len(args)))
	}
	query := `SELECT ` + debtColumns + ` FROM debts`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, limitOrDefault(f.Limit), f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update reescribe la deuda. updated_at lo fija el trigger.
func (r *DebtRepo) Update(ctx context.Context, debt *entity.Debt) error {
	query := `
		UPDATE debts SET customer_name = $2, customer_phone = $3, amount = $4, description = $5,
			due_date = $6, status = $7, notes = $8
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		debt.ID, debt.CustomerName, nullable(debt.CustomerPhone), debt.Amount, debt.Description,
		debt.DueDate, debt.Status, nullable(debt.Notes),
	).Scan(&debt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return translate("update debt", err)
}

// Delete elimina una deuda.
func (r *DebtRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyPayment aplica el abono con un único UPDATE: dos abonos concurrentes se serializan
// sobre la fila y ninguno se pierde. En SET, amount se refiere al valor previo de la fila.
func (r *DebtRepo) ApplyPayment(ctx context.Context, id int64, amount decimal.Decimal) (*entity.Debt, error) {
	d, err := scanDebt(r.q.QueryRow(ctx, `
		UPDATE debts SET
			amount = GREATEST(amount - $2, 0),
			status = CASE WHEN amount - $2 <= 0 THEN 'paid' ELSE 'partial' END
		WHERE id = $1 AND status <> 'paid'
		RETURNING `+debtColumns, id, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("pay debt", err)
	}
	return d, nil
}

// MarkOverdue marca como overdue las deudas abiertas (pending/partial) vencidas antes de asOf.
func (r *DebtRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE debts SET status = 'overdue'
		WHERE due_date < $1 AND status IN ('pending', 'partial')`, asOf)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Summary totales de la cartera por estado.
func (r *DebtRepo) Summary(ctx context.Context) (*repository.DebtSummary, error) {
	var s repository.DebtSummary
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN ('pending', 'partial') THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'overdue' THEN amount ELSE 0 END), 0),
			COUNT(*)
		FROM debts`).Scan(&s.Total, &s.Paid, &s.Pending, &s.Overdue, &s.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("debt summary: %w", err)
	}
	return &s, nil
}
