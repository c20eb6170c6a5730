package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reportes del panel en JSON",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Totales, movimientos recientes y deudas abiertas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := svc.Dashboard.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(stats)
		},
	})

	var days int
	trend := &cobra.Command{
		Use:   "trend",
		Short: "Ventas por día",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			points, err := svc.Dashboard.SalesTrend(cmd.Context(), days)
			if err != nil {
				return err
			}
			return a.printJSON(points)
		},
	}
	trend.Flags().IntVar(&days, "days", 7, "Días hacia atrás (hoy incluido)")

	var limit int
	top := &cobra.Command{
		Use:   "top",
		Short: "Productos más vendidos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			products, err := svc.Dashboard.TopProducts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.printJSON(products)
		},
	}
	top.Flags().IntVar(&limit, "limit", 5, "Cantidad de productos")

	now := time.Now()
	var year, month int
	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Resumen de un mes con utilidad (ventas pagadas - compras pagadas)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := svc.Dashboard.MonthlySummary(cmd.Context(), year, time.Month(month))
			if err != nil {
				return err
			}
			return a.printJSON(summary)
		},
	}
	monthly.Flags().IntVar(&year, "year", now.Year(), "Año")
	monthly.Flags().IntVar(&month, "month", int(now.Month()), "Mes (1-12)")

	cmd.AddCommand(trend, top, monthly)
	return cmd
}
