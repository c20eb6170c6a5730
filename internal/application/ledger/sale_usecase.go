package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/inventory"
	"github.com/jhoicas/fertilizer-shop/internal/domain/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
	"github.com/shopspring/decimal"
)

const statsPageSize = 500

// SaleUseCase registra ventas: cabecera, líneas y salida de stock en una sola transacción.
type SaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	log      *logger.Logger
	opts     Options
}

// NewSaleUseCase construye el caso de uso de ventas.
func NewSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, log *logger.Logger, opts Options) *SaleUseCase {
	return &SaleUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		log:      log.Component("sales"),
		opts:     opts,
	}
}

// CreateSale valida las líneas, calcula totales y estado de cobro, e inserta la venta
// descontando el stock de cada producto dentro de la misma transacción.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	customer := ledger.NormalizeParty(in.CustomerName)
	if customer == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, total, err := resolveLines(in.Items)
	if err != nil {
		return nil, err
	}
	if in.PaidAmount.IsNegative() || in.PaidAmount.GreaterThan(total) || !ledger.FitsColumn(in.PaidAmount) {
		return nil, domain.ErrInvalidInput
	}

	sale := &entity.Sale{
		CustomerName:    customer,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		TotalAmount:     total,
		PaidAmount:      in.PaidAmount,
		PaymentStatus:   ledger.ResolvePaymentStatus(total, in.PaidAmount),
		Notes:           in.Notes,
	}
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}

	var created *entity.Sale
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, line := range items {
			item := &entity.SaleItem{
				SaleID:     sale.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.TotalPrice,
			}
			if err := saleRepo.AddItem(ctx, item); err != nil {
				return productNotFound(line.ProductID, err)
			}
			if _, err := AdjustStock(ctx, productRepo, line.ProductID, inventory.SaleDelta(line.Quantity), uc.opts.GuardNegativeStock); err != nil {
				return err
			}
		}
		got, err := saleRepo.GetByID(ctx, sale.ID)
		if err != nil {
			return err
		}
		created = got
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("customer", customer).Msg("no se pudo registrar la venta")
		return nil, err
	}
	uc.log.Info().Int64("sale_id", created.ID).Str("total", total.String()).
		Str("status", string(created.PaymentStatus)).Msg("venta registrada")
	out := dto.FromSale(created)
	return &out, nil
}

// RecordPayment suma un abono a la venta. Lo pagado se topa en el total.
func (uc *SaleUseCase) RecordPayment(ctx context.Context, id int64, in dto.PaymentRequest) (*dto.SaleResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) || !ledger.FitsColumn(in.Amount) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Sale
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		paid, status := ledger.ApplyPayment(sale.TotalAmount, sale.PaidAmount, in.Amount)
		if err := saleRepo.UpdatePayment(ctx, id, paid, status); err != nil {
			return err
		}
		sale.PaidAmount, sale.PaymentStatus = paid, status
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("sale_id", id).Str("amount", in.Amount.String()).
		Str("status", string(updated.PaymentStatus)).Msg("abono de venta registrado")
	out := dto.FromSale(updated)
	return &out, nil
}

// DeleteSale devuelve al stock las cantidades vendidas y elimina la venta (líneas en cascada).
func (uc *SaleUseCase) DeleteSale(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		for _, it := range sale.Items {
			if _, err := productRepo.AdjustStock(ctx, it.ProductID, inventory.SaleDelta(it.Quantity).Neg()); err != nil {
				return err
			}
		}
		return saleRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("sale_id", id).Msg("venta eliminada, stock restituido")
	return nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromSale(sale)
	return &out, nil
}

// ListSales lista ventas con filtros de fecha, estado y cliente.
func (uc *SaleUseCase) ListSales(ctx context.Context, f dto.LedgerFilter) ([]dto.SaleResponse, error) {
	filter, err := toLedgerFilter(f)
	if err != nil {
		return nil, err
	}
	sales, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.FromSale(s))
	}
	return out, nil
}

// DailyStats resume las ventas del día calendario de day (en su zona horaria).
func (uc *SaleUseCase) DailyStats(ctx context.Context, day time.Time) (*dto.DailyStatsResponse, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Microsecond)
	stats := &dto.DailyStatsResponse{Date: start}

	for offset := 0; ; offset += statsPageSize {
		page, err := uc.saleRepo.List(ctx, repository.LedgerFilter{From: &start, To: &end, Limit: statsPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, s := range page {
			stats.TotalSales = stats.TotalSales.Add(s.TotalAmount)
			stats.SalesCount++
			switch s.PaymentStatus {
			case entity.PaymentStatusPaid:
				stats.PaidSales = stats.PaidSales.Add(s.TotalAmount)
			case entity.PaymentStatusPending, entity.PaymentStatusPartial:
				stats.PendingSales = stats.PendingSales.Add(s.TotalAmount)
			}
		}
		if len(page) < statsPageSize {
			break
		}
	}
	return stats, nil
}

// resolveLines valida cada línea y devuelve las líneas con total calculado y el total general.
func resolveLines(in []dto.LineRequest) ([]dto.LineRequest, decimal.Decimal, error) {
	out := make([]dto.LineRequest, 0, len(in))
	totals := make([]decimal.Decimal, 0, len(in))
	for _, l := range in {
		if l.ProductID <= 0 {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		lineTotal, err := ledger.ResolveLine(ledger.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, TotalPrice: l.TotalPrice})
		if err != nil {
			return nil, decimal.Zero, err
		}
		l.TotalPrice = lineTotal
		out = append(out, l)
		totals = append(totals, lineTotal)
	}
	return out, ledger.SumTotals(totals...), nil
}

func toLedgerFilter(f dto.LedgerFilter) (repository.LedgerFilter, error) {
	status := entity.PaymentStatus(f.Status)
	if status != "" && !status.Valid() {
		return repository.LedgerFilter{}, domain.ErrInvalidInput
	}
	f.DefaultPage()
	return repository.LedgerFilter{
		From:   f.From,
		To:     f.To,
		Status: status,
		Party:  ledger.NormalizeParty(f.Party),
		Limit:  f.Limit,
		Offset: f.Offset,
	}, nil
}

// productNotFound traduce la violación de FK de una línea a ErrNotFound del producto.
func productNotFound(productID int64, err error) error {
	if errors.Is(err, domain.ErrReferenceViolation) {
		return fmt.Errorf("producto %d: %w", productID, domain.ErrNotFound)
	}
	return err
}
