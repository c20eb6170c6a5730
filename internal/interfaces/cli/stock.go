package cli

import (
	"fmt"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/spf13/cobra"
)

func (a *app) stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Operaciones de inventario",
	}
	adjust := &cobra.Command{
		Use:   "adjust <product-id> <delta>",
		Short: "Suma (delta positivo) o resta (negativo) unidades al stock de un producto",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product-id", args[0])
			if err != nil {
				return err
			}
			delta, err := parseAmount("delta", args[1])
			if err != nil {
				return err
			}
			if delta.IsZero() {
				return fmt.Errorf("delta no puede ser cero")
			}
			req := dto.UpdateStockRequest{Quantity: delta.Abs(), Operation: dto.StockOpAdd}
			if delta.IsNegative() {
				req.Operation = dto.StockOpSubtract
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			product, err := svc.Products.UpdateStock(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: stock %s %s\n", product.Name, product.StockQuantity, product.Unit)
			return nil
		},
	}
	// Un delta negativo ("-3") no debe leerse como flag.
	adjust.Flags().SetInterspersed(false)
	cmd.AddCommand(adjust)
	cmd.AddCommand(&cobra.Command{
		Use:   "low",
		Short: "Lista los productos por debajo de su stock mínimo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			products, err := svc.Products.LowStock(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(products)
		},
	})
	return cmd
}
