// Package analytics contiene los casos de uso del panel de la tienda:
// totales, tendencia de ventas, productos más vendidos y resumen mensual.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

const (
	dashboardRecent       = 5  // ventas y compras recientes en el panel
	dashboardPendingDebts = 10 // deudas abiertas en el panel
	maxTrendDays          = 366
)

// DashboardUseCase genera el panel y los reportes de la tienda.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	loc           *time.Location
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc es la zona de la tienda (IANA, vía
// time.LoadLocation) en la que se cortan días y meses; nil usa UTC.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, loc: loc, now: time.Now}
}

// DashboardStats construye el panel principal.
//
// Cuatro llamadas en paralelo:
//  1. DashboardTotals            → sumas y conteos
//  2. RecentSales(5)             → últimas ventas
//  3. RecentPurchases(5)         → últimas compras
//  4. OpenDebts(10)              → deudas abiertas más próximas a vencer
func (uc *DashboardUseCase) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	type totalsResult struct {
		totals *repository.DashboardTotals
		err    error
	}
	type salesResult struct {
		sales []*entity.Sale
		err   error
	}
	type purchasesResult struct {
		purchases []*entity.Purchase
		err       error
	}
	type debtsResult struct {
		debts []*entity.Debt
		err   error
	}

	totalsCh := make(chan totalsResult, 1)
	salesCh := make(chan salesResult, 1)
	purchasesCh := make(chan purchasesResult, 1)
	debtsCh := make(chan debtsResult, 1)

	go func() {
		t, err := uc.analyticsRepo.DashboardTotals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		s, err := uc.analyticsRepo.RecentSales(ctx, dashboardRecent)
		salesCh <- salesResult{s, err}
	}()
	go func() {
		p, err := uc.analyticsRepo.RecentPurchases(ctx, dashboardRecent)
		purchasesCh <- purchasesResult{p, err}
	}()
	go func() {
		d, err := uc.analyticsRepo.OpenDebts(ctx, dashboardPendingDebts)
		debtsCh <- debtsResult{d, err}
	}()

	totals := <-totalsCh
	sales := <-salesCh
	purchases := <-purchasesCh
	debts := <-debtsCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", totals.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas recientes: %w", sales.err)
	}
	if purchases.err != nil {
		return nil, fmt.Errorf("dashboard: compras recientes: %w", purchases.err)
	}
	if debts.err != nil {
		return nil, fmt.Errorf("dashboard: deudas abiertas: %w", debts.err)
	}

	out := &dto.DashboardStatsResponse{
		TotalSales:       totals.totals.PaidSales,
		TotalPurchases:   totals.totals.PaidPurchases,
		TotalDebts:       totals.totals.OpenDebts,
		TotalProducts:    totals.totals.TotalProducts,
		LowStockProducts: totals.totals.LowStockProducts,
		RecentSales:      make([]dto.SaleResponse, 0, len(sales.sales)),
		RecentPurchases:  make([]dto.PurchaseResponse, 0, len(purchases.purchases)),
		PendingDebts:     make([]dto.DebtResponse, 0, len(debts.debts)),
	}
	for _, s := range sales.sales {
		out.RecentSales = append(out.RecentSales, dto.FromSale(s))
	}
	for _, p := range purchases.purchases {
		out.RecentPurchases = append(out.RecentPurchases, dto.FromPurchase(p))
	}
	for _, d := range debts.debts {
		out.PendingDebts = append(out.PendingDebts, dto.FromDebt(d))
	}
	return out, nil
}

// SalesTrend ventas por día de los últimos days días (hoy incluido). Los días sin ventas van en cero.
func (uc *DashboardUseCase) SalesTrend(ctx context.Context, days int) ([]dto.SalesTrendPoint, error) {
	if days <= 0 || days > maxTrendDays {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now().In(uc.loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	from := todayStart.AddDate(0, 0, -(days - 1))
	to := todayStart.AddDate(0, 0, 1)

	rows, err := uc.analyticsRepo.SalesByDay(ctx, from, to, uc.loc.String())
	if err != nil {
		return nil, fmt.Errorf("sales trend: %w", err)
	}
	byDay := make(map[string]repository.DailySales, len(rows))
	for _, r := range rows {
		byDay[r.Day.Format(time.DateOnly)] = r
	}

	out := make([]dto.SalesTrendPoint, 0, days)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		point := dto.SalesTrendPoint{Date: d}
		if r, ok := byDay[d.Format(time.DateOnly)]; ok {
			point.Total, point.Paid, point.Count = r.Total, r.Paid, r.Count
		}
		out = append(out, point)
	}
	return out, nil
}

// TopProducts productos con más cantidad vendida.
func (uc *DashboardUseCase) TopProducts(ctx context.Context, limit int) ([]dto.TopProductResponse, error) {
	if limit <= 0 {
		limit = dashboardRecent
	}
	rows, err := uc.analyticsRepo.TopProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	out := make([]dto.TopProductResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductResponse{
			ProductID:    r.ProductID,
			Name:         r.Name,
			Type:         string(r.Type),
			QuantitySold: r.TotalQuantity,
		})
	}
	return out, nil
}

// MonthlySummary totales del mes indicado. Profit = ventas pagadas - compras pagadas.
func (uc *DashboardUseCase) MonthlySummary(ctx context.Context, year int, month time.Month) (*dto.MonthlySummaryResponse, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, domain.ErrInvalidInput
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, uc.loc)
	to := from.AddDate(0, 1, 0)

	t, err := uc.analyticsRepo.PeriodTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	return &dto.MonthlySummaryResponse{
		Year:          year,
		Month:         int(month),
		Label:         monthLabel(from),
		Sales:         t.Sales,
		PaidSales:     t.PaidSales,
		Purchases:     t.Purchases,
		PaidPurchases: t.PaidPurchases,
		NewDebts:      t.NewDebts,
		SalesCount:    t.SalesCount,
		Profit:        t.PaidSales.Sub(t.PaidPurchases).Round(2),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
