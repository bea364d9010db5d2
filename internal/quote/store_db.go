package quote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
	pgUniqueCode = "23505"
)

type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS quotes (
				id TEXT PRIMARY KEY,
				visitor_id TEXT NOT NULL,
				name TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				installation BOOLEAN NOT NULL DEFAULT false,
				estimate DOUBLE PRECISION NOT NULL,
				status TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
			CREATE TABLE IF NOT EXISTS quote_lines (
				quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
				product_id TEXT NOT NULL,
				name TEXT NOT NULL,
				qty INT NOT NULL,
				unit_price DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (quote_id, product_id)
			);
			CREATE TABLE IF NOT EXISTS consultations (
				id TEXT PRIMARY KEY,
				visitor_id TEXT NOT NULL,
				name TEXT NOT NULL,
				phone TEXT NOT NULL,
				preferred_time TEXT NOT NULL DEFAULT '',
				topic TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) CreateQuote(ctx context.Context, q Quote) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO quotes (id, visitor_id, name, phone, email, message, installation, estimate, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, q.ID, q.VisitorID, q.Name, q.Phone, q.Email, q.Message, q.Installation, q.Estimate, q.Status, q.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateID
			}
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO quote_lines (quote_id, product_id, name, qty, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, l := range q.Lines {
			if _, err := stmt.ExecContext(ctx, q.ID, l.ProductID, l.Name, l.Qty, l.UnitPrice); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) GetQuote(ctx context.Context, id string) (Quote, bool, error) {
	var (
		q     Quote
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `
			SELECT id, visitor_id, name, phone, email, message, installation, estimate, status, created_at
			FROM quotes
			WHERE id = $1
		`, id).Scan(&q.ID, &q.VisitorID, &q.Name, &q.Phone, &q.Email, &q.Message, &q.Installation, &q.Estimate, &q.Status, &q.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		rows, err := s.db.QueryContext(ctx, `
			SELECT product_id, name, qty, unit_price
			FROM quote_lines
			WHERE quote_id = $1
			ORDER BY product_id ASC
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		q.Lines = make([]Line, 0, 4)
		for rows.Next() {
			var l Line
			if err := rows.Scan(&l.ProductID, &l.Name, &l.Qty, &l.UnitPrice); err != nil {
				return err
			}
			l.Total = l.UnitPrice * float64(l.Qty)
			q.Lines = append(q.Lines, l)
		}
		return rows.Err()
	})

	if err != nil {
		return Quote{}, false, err
	}
	return q, found, nil
}

func (s *PostgresStore) CreateConsultation(ctx context.Context, c Consultation) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO consultations (id, visitor_id, name, phone, preferred_time, topic, message, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, c.ID, c.VisitorID, c.Name, c.Phone, c.PreferredTime, c.Topic, c.Message, c.Status, c.CreatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
