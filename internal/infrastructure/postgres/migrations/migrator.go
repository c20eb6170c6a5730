// Package migrations contiene el esquema de la base de datos como scripts SQL versionados
// (embebidos en el binario) y el runner que los aplica en orden.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
)

//go:embed *.sql
var files embed.FS

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// DB subconjunto de pgxpool.Pool / pgx.Conn que necesita el migrador.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Migration un script versionado. Version es el nombre del archivo sin extensión.
type Migration struct {
	Version string
	SQL     string
}

// Migrator aplica los scripts embebidos, cada uno en su propia transacción.
type Migrator struct {
	db  DB
	log *logger.Logger
	src fs.FS
}

// NewMigrator construye el migrador sobre los scripts embebidos.
func NewMigrator(db DB, log *logger.Logger) *Migrator {
	return &Migrator{db: db, log: log, src: files}
}

// Load devuelve los scripts ordenados lexicográficamente (001_, 002_, ...).
func Load(src fs.FS) ([]Migration, error) {
	names, err := fs.Glob(src, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(names)
	list := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(src, name)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", name, err)
		}
		if strings.TrimSpace(string(body)) == "" {
			return nil, fmt.Errorf("migración vacía: %s", name)
		}
		list = append(list, Migration{Version: strings.TrimSuffix(name, ".sql"), SQL: string(body)})
	}
	return list, nil
}

// All devuelve los scripts embebidos en el binario.
func All() ([]Migration, error) {
	return Load(files)
}

// Up aplica las migraciones pendientes y devuelve las versiones aplicadas.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(pending))
	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return applied, err
		}
		m.log.Info().Str("version", mig.Version).Msg("migración aplicada")
		applied = append(applied, mig.Version)
	}
	return applied, nil
}

// Pending devuelve las migraciones aún no registradas en schema_migrations.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	if _, err := m.db.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}
	done, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	all, err := Load(m.src)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, mig := range all {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	done := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migración %s: %w", mig.Version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Sin argumentos pgx usa el protocolo simple, que admite varias sentencias por script.
	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return fmt.Errorf("migración %s: %w", mig.Version, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
		return fmt.Errorf("registrar migración %s: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migración %s: %w", mig.Version, err)
	}
	return nil
}
