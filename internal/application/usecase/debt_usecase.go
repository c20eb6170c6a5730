package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
	"github.com/shopspring/decimal"
)

// DebtUseCase cartera de deudas de clientes. Una deuda no está ligada a ninguna venta.
type DebtUseCase struct {
	repo repository.DebtRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewDebtUseCase construye el caso de uso.
func NewDebtUseCase(repo repository.DebtRepository, log *logger.Logger) *DebtUseCase {
	return &DebtUseCase{repo: repo, log: log.Component("debts"), now: time.Now}
}

// Create registra una deuda; estado por defecto pending.
func (uc *DebtUseCase) Create(ctx context.Context, in dto.CreateDebtRequest) (*dto.DebtResponse, error) {
	status := entity.PaymentStatus(in.Status)
	if status == "" {
		status = entity.PaymentStatusPending
	}
	debt := &entity.Debt{
		CustomerName:  ledger.NormalizeParty(in.CustomerName),
		CustomerPhone: in.CustomerPhone,
		Amount:        in.Amount,
		Description:   in.Description,
		DueDate:       in.DueDate,
		Status:        status,
		Notes:         in.Notes,
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, debt); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("debt_id", debt.ID).Str("amount", debt.Amount.String()).Msg("deuda registrada")
	out := dto.FromDebt(debt)
	return &out, nil
}

// GetByID obtiene una deuda.
func (uc *DebtUseCase) GetByID(ctx context.Context, id int64) (*dto.DebtResponse, error) {
	debt, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromDebt(debt)
	return &out, nil
}

// List lista deudas por estado y cliente.
func (uc *DebtUseCase) List(ctx context.Context, f dto.DebtFilter) ([]dto.DebtResponse, error) {
	status := entity.PaymentStatus(f.Status)
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	f.DefaultPage()
	list, err := uc.repo.List(ctx, repository.DebtFilter{
		Status:       status,
		CustomerName: ledger.NormalizeParty(f.CustomerName),
		OverdueOnly:  f.OverdueOnly,
		Limit:        f.Limit,
		Offset:       f.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.FromDebt(d))
	}
	return out, nil
}

// Update aplica los campos presentes.
func (uc *DebtUseCase) Update(ctx context.Context, id int64, in dto.UpdateDebtRequest) (*dto.DebtResponse, error) {
	debt, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CustomerName != nil {
		debt.CustomerName = ledger.NormalizeParty(*in.CustomerName)
	}
	if in.CustomerPhone != nil {
		debt.CustomerPhone = *in.CustomerPhone
	}
	if in.Amount != nil {
		debt.Amount = *in.Amount
	}
	if in.Description != nil {
		debt.Description = *in.Description
	}
	if in.DueDate != nil {
		debt.DueDate = in.DueDate
	}
	if in.Status != nil {
		debt.Status = entity.PaymentStatus(*in.Status)
	}
	if in.Notes != nil {
		debt.Notes = *in.Notes
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, debt); err != nil {
		return nil, err
	}
	out := dto.FromDebt(debt)
	return &out, nil
}

// Pay descuenta un abono del saldo. Saldo en cero → paid; reducido → partial.
// El repositorio descuenta en una sola operación atómica.
func (uc *DebtUseCase) Pay(ctx context.Context, id int64, in dto.PaymentRequest) (*dto.DebtResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) || !ledger.FitsColumn(in.Amount) {
		return nil, domain.ErrInvalidInput
	}
	debt, err := uc.repo.ApplyPayment(ctx, id, in.Amount)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		// Sin fila actualizada: no existe o ya estaba pagada.
		if _, err := uc.get(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrConflict
	}
	uc.log.Info().Int64("debt_id", id).Str("payment", in.Amount.String()).
		Str("remaining", debt.Amount.String()).Msg("abono a deuda registrado")
	out := dto.FromDebt(debt)
	return &out, nil
}

// Delete elimina una deuda.
func (uc *DebtUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// Summary totales de la cartera.
func (uc *DebtUseCase) Summary(ctx context.Context) (*dto.DebtSummaryResponse, error) {
	s, err := uc.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DebtSummaryResponse{
		TotalDebt:    s.Total,
		PaidDebt:     s.Paid,
		PendingDebt:  s.Pending,
		OverdueDebt:  s.Overdue,
		TotalRecords: s.TotalRecords,
	}, nil
}

// MarkOverdue pasa a overdue las deudas abiertas vencidas antes del inicio del día de hoy.
func (uc *DebtUseCase) MarkOverdue(ctx context.Context) (int64, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	n, err := uc.repo.MarkOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("updated", n).Time("as_of", today).Msg("deudas vencidas marcadas")
	return n, nil
}

func (uc *DebtUseCase) get(ctx context.Context, id int64) (*entity.Debt, error) {
	debt, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, domain.ErrNotFound
	}
	return debt, nil
}

func validateDebt(d *entity.Debt) error {
	if d.CustomerName == "" || d.Description == "" || !d.Status.Valid() {
		return domain.ErrInvalidInput
	}
	if d.Amount.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
