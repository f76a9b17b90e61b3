package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")
)

type BlogDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewBlogDB opens and pings the database. driver is either "postgres"
// (lib/pq) or "pgx" (jackc/pgx stdlib).
func NewBlogDB(driver, source string, log *zerolog.Logger) (*BlogDB, error) {
	if source == "" {
		log.Error().Msg("database source is not set")
		return nil, fmt.Errorf("database source is not set")
	}

	// Open the database connection
	db, err := sql.Open(driver, source)
	if err != nil {
		log.Error().Err(err).Str("driver", driver).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return &BlogDB{
		DB:  db,
		Log: log,
	}, nil
}

func (b *BlogDB) Close() error {
	if err := b.DB.Close(); err != nil {
		return err
	}
	b.Log.Info().Msg("database connection closed")
	return nil
}

// Migrate applies all pending migrations.
func (b *BlogDB) Migrate() error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}

	if err := goose.Up(b.DB, "migrations"); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	b.Log.Info().Msg("Migrations applied successfully")
	return nil
}

// CommitTransaction commits tx, rolling it back if the commit fails.
func (b *BlogDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (b *BlogDB) execQuery(tx *sql.Tx, query string, args ...interface{}) error {

	if b.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	_, err := tx.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}
