// Package postgres provides PostgreSQL connection management and the gorm implementations
// of the repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DBConnection manages the PostgreSQL connection pool and the gorm handle over it.
type DBConnection struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger logger.Logger
}

// NewDBConnection opens a pgx-backed pool, verifies it and wraps it in gorm.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	log = log.WithComponent("postgres")
	log.Info(ctx, "Initializing PostgreSQL connection pool",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
		logger.Int("max_open_conns", cfg.MaxOpenConns),
	)

	pgxCfg, err := pgx.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, errors.ErrStorageFailure("parse dsn").WithCause(err)
	}

	sqlDB := stdlib.OpenDB(*pgxCfg)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		log.Error(ctx, "Failed to reach PostgreSQL", err)
		return nil, errors.ErrStorageFailure("connect").WithCause(err)
	}

	db, err := OpenGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info(ctx, "PostgreSQL connection pool initialized")
	return &DBConnection{db: db, sqlDB: sqlDB, logger: log}, nil
}

// OpenGorm wraps an existing *sql.DB speaking the PostgreSQL protocol.
func OpenGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, errors.ErrStorageFailure("open gorm").WithCause(err)
	}
	return db, nil
}

// DB returns the gorm handle.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Migrate applies the embedded schema migrations.
func (c *DBConnection) Migrate(ctx context.Context) error {
	if err := RunMigrations(c.sqlDB); err != nil {
		c.logger.Error(ctx, "Schema migration failed", err)
		return err
	}
	c.logger.Info(ctx, "Schema migrations applied")
	return nil
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.ErrStorageFailure("migrate").WithCause(err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.ErrStorageFailure("migrate").WithCause(err)
	}
	return nil
}

// HealthCheck pings the database.
func (c *DBConnection) HealthCheck(ctx context.Context) error {
	if err := c.sqlDB.PingContext(ctx); err != nil {
		return errors.ErrStorageFailure("ping").WithCause(err)
	}
	return nil
}

// Close closes the pool.
func (c *DBConnection) Close() error {
	return c.sqlDB.Close()
}
