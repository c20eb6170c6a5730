// Package cli expone las herramientas de operador de la tienda como comandos cobra.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/analytics"
	"github.com/jhoicas/fertilizer-shop/internal/application/auth"
	"github.com/jhoicas/fertilizer-shop/internal/application/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/application/usecase"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/postgres/migrations"
	"github.com/spf13/cobra"
)

// Services casos de uso que consumen los comandos. Close libera conexiones.
// Auth puede ser nil (sin JWT_SECRET); AuthErr dice por qué y sólo lo ven los comandos que lo usan.
type Services struct {
	Migrator  *migrations.Migrator
	Products  *usecase.ProductUseCase
	Sales     *ledger.SaleUseCase
	Purchases *ledger.PurchaseUseCase
	Debts     *usecase.DebtUseCase
	Users     *usecase.UserUseCase
	Auth      *auth.AuthUseCase
	AuthErr   error
	Dashboard *analytics.DashboardUseCase
	Location  *time.Location // zona de la tienda para fechas sin hora; nil es UTC
	Close     func()
}

func (s *Services) auth() (*auth.AuthUseCase, error) {
	if s.Auth != nil {
		return s.Auth, nil
	}
	if s.AuthErr != nil {
		return nil, fmt.Errorf("autenticación no disponible: %w", s.AuthErr)
	}
	return nil, errors.New("autenticación no disponible")
}

func (s *Services) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Factory construye los servicios al ejecutar un comando (no al parsear flags).
type Factory func(ctx context.Context) (*Services, error)

type app struct {
	factory Factory
	out     io.Writer
	svc     *Services
}

// NewRootCmd arma el árbol de comandos de shopdb.
func NewRootCmd(factory Factory, out io.Writer) *cobra.Command {
	a := &app{factory: factory, out: out}
	root := &cobra.Command{
		Use:   "shopdb",
		Short: "Herramientas de operador de la tienda de fertilizantes",
		Long: `shopdb administra la base de datos de la tienda: aplica migraciones,
ajusta stock, registra ventas y compras, marca deudas vencidas, administra
usuarios y emite reportes.`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.svc != nil && a.svc.Close != nil {
				a.svc.Close()
			}
		},
	}
	root.SetOut(out)
	root.AddCommand(
		a.migrateCmd(),
		a.stockCmd(),
		a.salesCmd(),
		a.purchasesCmd(),
		a.debtsCmd(),
		a.usersCmd(),
		a.reportCmd(),
	)
	return root
}

func (a *app) services(ctx context.Context) (*Services, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := a.factory(ctx)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("escribir salida: %w", err)
	}
	return nil
}
