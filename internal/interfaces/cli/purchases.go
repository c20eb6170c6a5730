package cli

import (
	"fmt"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/spf13/cobra"
)

func (a *app) purchasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "Compras a proveedores",
	}

	var (
		req   dto.CreatePurchaseRequest
		paid  string
		lines []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Registra una compra y suma al stock lo recibido",
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
			purchase, err := svc.Purchases.CreatePurchase(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printJSON(purchase)
		},
	}
	create.Flags().StringVar(&req.SupplierName, "supplier", "", "Nombre del proveedor")
	create.Flags().StringVar(&req.SupplierPhone, "phone", "", "Teléfono del proveedor")
	create.Flags().StringVar(&req.SupplierAddress, "address", "", "Dirección del proveedor")
	create.Flags().StringVar(&req.Notes, "notes", "", "Notas")
	create.Flags().StringVar(&paid, "paid", "0", "Monto pagado al proveedor")
	create.Flags().StringArrayVar(&lines, "item", nil, "Línea producto:cantidad:precio[:total]; repetible")
	_ = create.MarkFlagRequired("supplier")
	_ = create.MarkFlagRequired("item")

	pay := &cobra.Command{
		Use:   "pay <purchase-id> <amount>",
		Short: "Registra un pago al proveedor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("purchase-id", args[0])
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
			p, err := svc.Purchases.RecordPayment(cmd.Context(), id, dto.PaymentRequest{Amount: amount})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "compra %d: pagado %s de %s (%s)\n", p.ID, p.PaidAmount, p.TotalAmount, p.PaymentStatus)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <purchase-id>",
		Short: "Elimina una compra y retira su mercancía del stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("purchase-id", args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Purchases.DeletePurchase(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "compra %d eliminada\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, pay, del, a.ledgerListCmd("compras", func(cmd *cobra.Command, svc *Services, f dto.LedgerFilter) (any, error) {
		return svc.Purchases.ListPurchases(cmd.Context(), f)
	}))
	return cmd
}
