package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if svc.Migrator == nil {
				return errors.New("migrador no disponible")
			}
			applied, err := svc.Migrator.Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(a.out, "esquema al día")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(a.out, "aplicada %s\n", v)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Lista las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if svc.Migrator == nil {
				return errors.New("migrador no disponible")
			}
			pending, err := svc.Migrator.Pending(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(a.out, "sin migraciones pendientes")
				return nil
			}
			for _, v := range pending {
				fmt.Fprintf(a.out, "pendiente %s\n", v.Version)
			}
			return nil
		},
	})
	return cmd
}
