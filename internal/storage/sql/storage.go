// Package sqlstore persists player records in a relational database
// through bun, on SQLite or Postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/storage"
)

// Storage is a SQL-backed implementation of the storage interface
type Storage struct {
	client *persistence.Client
	db     *bun.DB
	logger *slog.Logger
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open connects to the database described by cfg and applies pending migrations
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	migrations, err := MigrationsFS(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// single writer; also keeps shared in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(cfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new client: %w", err)
	}

	client.RegisterSQLMigrations(migrations)
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}

	logger.Info("sql storage ready", slog.String("driver", cfg.Driver))

	return &Storage{
		client: client,
		db:     client.DB(),
		logger: logger,
	}, nil
}

func dialectFor(driver string) (schema.Dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqlitedialect.New(), nil
	case DriverPostgres:
		return pgdialect.New(), nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

// DB exposes the underlying bun handle
func (s *Storage) DB() *bun.DB {
	return s.db
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) GetPlayerRecord(ctx context.Context, id model.ExternalID) (*model.StoredRecord, error) {
	row := new(playerRecordRow)
	err := s.db.NewSelect().
		Model(row).
		Where("?TableAlias.user_id = ?", string(id)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *Storage) InsertPlayerRecord(ctx context.Context, rec *model.StoredRecord) error {
	res, err := s.db.NewInsert().
		Model(newPlayerRecordRow(rec)).
		ExcludeColumn("id").
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrRecordExists
	}
	return nil
}

func (s *Storage) UpdatePlayerRecord(ctx context.Context, rec *model.StoredRecord) error {
	res, err := s.db.NewUpdate().
		Model(newPlayerRecordRow(rec)).
		ExcludeColumn("id", "user_id", "create_time").
		Where("user_id = ?", string(rec.ExternalID)).
		Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrRecordNotFound
	}
	return nil
}
