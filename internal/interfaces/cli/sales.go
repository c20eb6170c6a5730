package cli

import (
	"fmt"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/spf13/cobra"
)

func (a *app) salesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Ventas a clientes",
	}

	var (
		req   dto.CreateSaleRequest
		paid  string
		lines []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Registra una venta y descuenta el stock de sus productos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseLines(lines)
			if err != nil {
				return err
			}
			req.Items = items
			if req.PaidAmount, err = parseAmount("paid", paid); err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			sale, err := svc.Sales.CreateSale(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printJSON(sale)
		},
	}
	create.Flags().StringVar(&req.CustomerName, "customer", "", "Nombre del cliente")
	create.Flags().StringVar(&req.CustomerPhone, "phone", "", "Teléfono del cliente")
	create.Flags().StringVar(&req.CustomerAddress, "address", "", "Dirección del cliente")
	create.Flags().StringVar(&req.Notes, "notes", "", "Notas")
	create.Flags().StringVar(&paid, "paid", "0", "Monto pagado al momento de la venta")
	create.Flags().StringArrayVar(&lines, "item", nil, "Línea producto:cantidad:precio[:total]; repetible")
	_ = create.MarkFlagRequired("customer")
	_ = create.MarkFlagRequired("item")

	pay := &cobra.Command{
		Use:   "pay <sale-id> <amount>",
		Short: "Registra un abono; lo pagado se topa en el total",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("sale-id", args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount("amount", args[1])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			sale, err := svc.Sales.RecordPayment(cmd.Context(), id, dto.PaymentRequest{Amount: amount})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "venta %d: pagado %s de %s (%s)\n", sale.ID, sale.PaidAmount, sale.TotalAmount, sale.PaymentStatus)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <sale-id>",
		Short: "Elimina una venta y devuelve su mercancía al stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("sale-id", args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Sales.DeleteSale(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "venta %d eliminada\n", id)
			return nil
		},
	}

	var day string
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Resumen de ventas de un día (hoy por defecto)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			loc := svc.location()
			date := time.Now().In(loc)
			if day != "" {
				if date, err = time.ParseInLocation(time.DateOnly, day, loc); err != nil {
					return fmt.Errorf("día inválido %q: %w", day, err)
				}
			}
			out, err := svc.Sales.DailyStats(cmd.Context(), date)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	stats.Flags().StringVar(&day, "day", "", "Día YYYY-MM-DD en la zona de la tienda")

	cmd.AddCommand(create, pay, del, stats, a.ledgerListCmd("ventas", func(cmd *cobra.Command, svc *Services, f dto.LedgerFilter) (any, error) {
		return svc.Sales.ListSales(cmd.Context(), f)
	}))
	return cmd
}

// ledgerListCmd arma "list" con los filtros comunes de ventas y compras.
func (a *app) ledgerListCmd(what string, list func(*cobra.Command, *Services, dto.LedgerFilter) (any, error)) *cobra.Command {
	var f dto.LedgerFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista " + what + " por estado y contraparte",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			out, err := list(cmd, svc, f)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "paid, pending, partial u overdue")
	cmd.Flags().StringVar(&f.Party, "party", "", "Cliente o proveedor, coincidencia parcial sin distinguir mayúsculas")
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "Máximo de registros")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Registros a saltar")
	return cmd
}
