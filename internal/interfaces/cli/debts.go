package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) debtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Cartera de deudas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "mark-overdue",
		Short: "Marca como overdue las deudas pending/partial vencidas antes de hoy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.Debts.MarkOverdue(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d deudas marcadas como vencidas\n", n)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Totales de la cartera por estado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			s, err := svc.Debts.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(s)
		},
	})
	return cmd
}
