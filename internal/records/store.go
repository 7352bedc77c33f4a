// Package records persists escalation and voicemail notifications in
// PostgreSQL so they survive the process, giving the operator a queryable
// log next to the fire-and-forget channels.
package records

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/notify"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Record is one persisted notification.
type Record struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Kind      string    `db:"kind" json:"kind"`
	CallSID   string    `db:"call_sid" json:"call_sid"`
	CallerID  string    `db:"caller_id" json:"caller_id"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Store is the call-record repository.
type Store struct {
	db *sqlx.DB
}

// Open connects to PostgreSQL and runs pending migrations.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := runMigrations(cfg); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func runMigrations(cfg config.DatabaseConfig) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores one record.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO call_records (id, kind, call_sid, caller_id, subject, body, created_at)
		VALUES (:id, :kind, :call_sid, :caller_id, :subject, :body, :created_at)
	`
	_, err := s.db.NamedExecContext(ctx, query, rec)
	return err
}

// Recent returns the latest records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []Record
	query := `
		SELECT id, kind, call_sid, caller_id, subject, body, created_at
		FROM call_records
		ORDER BY created_at DESC
		LIMIT $1
	`
	if err := s.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, err
	}
	return recs, nil
}

// ByCallSID returns the records for one call, oldest first.
func (s *Store) ByCallSID(ctx context.Context, callSID string) ([]Record, error) {
	var recs []Record
	query := `
		SELECT id, kind, call_sid, caller_id, subject, body, created_at
		FROM call_records
		WHERE call_sid = $1
		ORDER BY created_at
	`
	if err := s.db.SelectContext(ctx, &recs, query, callSID); err != nil {
		return nil, err
	}
	return recs, nil
}

// Channel adapts the store into a notification channel.
type Channel struct {
	store *Store
}

// NewChannel wraps a store as a notify.Channel.
func NewChannel(store *Store) *Channel {
	return &Channel{store: store}
}

func (c *Channel) Name() string { return "database" }

func (c *Channel) Send(ctx context.Context, n notify.Notification) error {
	return c.store.Insert(ctx, &Record{
		ID:        n.ID,
		Kind:      n.Kind,
		CallSID:   n.CallSID,
		CallerID:  n.CallerID,
		Subject:   n.Subject,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	})
}
