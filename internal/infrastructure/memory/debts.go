package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DebtRepository = (*DebtRepo)(nil)

// DebtRepo deudas en memoria.
type DebtRepo struct {
	s *Store
}

// Create inserta la deuda; Status vacío toma pending.
func (r *DebtRepo) Create(_ context.Context, d *entity.Debt) error {
	if d.Status == "" {
		d.Status = entity.PaymentStatusPending
	}
	if d.CustomerName == "" || d.Description == "" || !d.Status.Valid() {
		return fmt.Errorf("insert debt: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	d.ID = r.s.nextID()
	d.CreatedAt, d.UpdatedAt = now, now
	r.s.data.debts[d.ID] = *d
	return nil
}

// ApplyPayment descuenta el abono bajo el mutex del store, igual que el UPDATE atómico.
func (r *DebtRepo) ApplyPayment(_ context.Context, id int64, amount decimal.Decimal) (*entity.Debt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.debts[id]
	if !ok || d.Status == entity.PaymentStatusPaid {
		return nil, nil
	}
	d.Amount, d.Status = ledger.ApplyDebtPayment(d.Amount, amount, d.Status)
	d.UpdatedAt = r.s.now()
	r.s.data.debts[id] = d
	return &d, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *DebtRepo) GetByID(_ context.Context, id int64) (*entity.Debt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.debts[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// List filtra por estado y cliente; más recientes primero.
func (r *DebtRepo) List(_ context.Context, f repository.DebtFilter) ([]*entity.Debt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	status := f.Status
	if f.OverdueOnly {
		status = entity.PaymentStatusOverdue
	}
	var out []*entity.Debt
	for _, d := range r.s.data.debts {
		if status != "" && d.Status != status {
			continue
		}
		if f.CustomerName != "" && !strings.Contains(strings.ToLower(d.CustomerName), strings.ToLower(f.CustomerName)) {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}

// Update reescribe la deuda conservando created_at.
func (r *DebtRepo) Update(_ context.Context, d *entity.Debt) error {
	if d.CustomerName == "" || d.Description == "" || !d.Status.Valid() {
		return fmt.Errorf("update debt: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.debts[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	d.CreatedAt = cur.CreatedAt
	d.UpdatedAt = r.s.now()
	r.s.data.debts[d.ID] = *d
	return nil
}

// Delete elimina la deuda.
func (r *DebtRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.debts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.debts, id)
	return nil
}

// MarkOverdue pasa a overdue las deudas abiertas vencidas antes de asOf.
func (r *DebtRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, d := range r.s.data.debts {
		if d.IsPastDue(asOf) {
			d.Status = entity.PaymentStatusOverdue
			d.UpdatedAt = r.s.now()
			r.s.data.debts[id] = d
			n++
		}
	}
	return n, nil
}

// Summary totales por estado.
func (r *DebtRepo) Summary(_ context.Context) (*repository.DebtSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var s repository.DebtSummary
	for _, d := range r.s.data.debts {
		s.Total = s.Total.Add(d.Amount)
		s.TotalRecords++
		switch d.Status {
		case entity.PaymentStatusPaid:
			s.Paid = s.Paid.Add(d.Amount)
		case entity.PaymentStatusPending, entity.PaymentStatusPartial:
			s.Pending = s.Pending.Add(d.Amount)
		case entity.PaymentStatusOverdue:
			s.Overdue = s.Overdue.Add(d.Amount)
		}
	}
	return &s, nil
}
