package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id            UUID PRIMARY KEY,
	text          TEXT NOT NULL,
	prediction    TEXT NOT NULL,
	confidence    DOUBLE PRECISION NOT NULL,
	model_version TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at DESC);
`

// PostgresStore is the pgx-backed prediction log.
type PostgresStore struct {
	pool      *pgxpool.Pool
	connected bool
}

// Connect opens a pool against dsn and ensures the predictions schema.
func Connect(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure predictions schema: %w", err)
	}

	log.Printf("History store connected")
	return &PostgresStore{pool: pool, connected: true}, nil
}

// IsConnected reports whether the store is usable.
func (s *PostgresStore) IsConnected() bool {
	return s != nil && s.connected
}

// Append writes one prediction record and returns its ID. A zero rec.ID
// is replaced with a fresh UUID; a zero rec.CreatedAt with now.
func (s *PostgresStore) Append(ctx context.Context, rec PredictionRecord) (uuid.UUID, error) {
	if !s.IsConnected() {
		return uuid.Nil, fmt.Errorf("history store not connected")
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO predictions (id, text, prediction, confidence, model_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Text, rec.Prediction, rec.Confidence, rec.ModelVersion, rec.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert prediction: %w", err)
	}

	return rec.ID, nil
}

// Record adapts Append to the analyzer's persistence interface.
func (s *PostgresStore) Record(ctx context.Context, text, prediction string, confidence float64, modelVersion string) (string, error) {
	id, err := s.Append(ctx, PredictionRecord{
		Text:         text,
		Prediction:   prediction,
		Confidence:   confidence,
		ModelVersion: modelVersion,
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// QueryRecent returns up to limit predictions, newest first.
func (s *PostgresStore) QueryRecent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if !s.IsConnected() {
		return nil, fmt.Errorf("history store not connected")
	}

	limit = ClampLimit(limit)

	rows, err := s.pool.Query(ctx,
		`SELECT id, text, prediction, confidence, model_version, created_at
		 FROM predictions
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0, limit)
	for rows.Next() {
		var rec PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Prediction, &rec.Confidence, &rec.ModelVersion, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prediction row iteration failed: %w", err)
	}

	return records, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.connected = false
		s.pool.Close()
	}
}
