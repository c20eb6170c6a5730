package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/analytics"
	"github.com/jhoicas/fertilizer-shop/internal/application/auth"
	"github.com/jhoicas/fertilizer-shop/internal/application/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/application/usecase"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/postgres"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/fertilizer-shop/internal/interfaces/cli"
	"github.com/jhoicas/fertilizer-shop/pkg/config"
	"github.com/jhoicas/fertilizer-shop/pkg/jwt"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(func(ctx context.Context) (*cli.Services, error) {
		return wire(ctx, cfg, log)
	}, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("comando fallido")
		stop()
		os.Exit(1)
	}
}

func wire(ctx context.Context, cfg *config.Config, log *logger.Logger) (*cli.Services, error) {
	log.Debug().
		Str("env", cfg.App.Env).
		Str("db", cfg.DB.DBName).
		Str("tz", cfg.App.TimeZone).
		Msg("conectando a PostgreSQL")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}

	txRunner := postgres.NewTxRunner(pool)
	opts := ledger.Options{GuardNegativeStock: cfg.Stock.GuardNegative}
	loc := cfg.App.Location()
	users := postgres.NewUserRepository(pool)
	tokens := postgres.NewRefreshTokenRepository(pool)

	svc := &cli.Services{
		Migrator:  migrations.NewMigrator(pool, log),
		Products:  usecase.NewProductUseCase(postgres.NewProductRepository(pool), txRunner, log, opts),
		Sales:     ledger.NewSaleUseCase(txRunner, postgres.NewSaleRepository(pool), log, opts),
		Purchases: ledger.NewPurchaseUseCase(txRunner, postgres.NewPurchaseRepository(pool), log, opts),
		Debts:     usecase.NewDebtUseCase(postgres.NewDebtRepository(pool), log),
		Users:     usecase.NewUserUseCase(users, tokens, log),
		Dashboard: analytics.NewDashboardUseCase(postgres.NewAnalyticsRepository(pool), loc),
		Location:  loc,
		Close:     pool.Close,
	}

	// Sólo los comandos de autenticación necesitan JWT_SECRET.
	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Debug().Err(err).Msg("autenticación deshabilitada")
		svc.AuthErr = err
		return svc, nil
	}
	svc.Auth = auth.NewAuthUseCase(users, tokens, txRunner, signer, auth.TokenConfig{
		AccessTTL:  time.Duration(cfg.JWT.Expiration) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshDays) * 24 * time.Hour,
	}, log)
	return svc, nil
}
