// Package history persists prediction results to Postgres and serves
// them back newest-first. History is best-effort auxiliary data: the
// classification contract never depends on a write succeeding, and the
// service keeps running when the database is unreachable.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueryLimit bounds for the recent-predictions query.
const (
	DefaultQueryLimit = 10
	MaxQueryLimit     = 50
)

// PredictionRecord is one persisted verdict.
type PredictionRecord struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	Prediction   string    `json:"prediction"`
	Confidence   float64   `json:"confidence"`
	ModelVersion string    `json:"model_version"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store is the prediction log interface. *PostgresStore is the
// production implementation; tests substitute fakes.
type Store interface {
	IsConnected() bool
	Append(ctx context.Context, rec PredictionRecord) (uuid.UUID, error)
	QueryRecent(ctx context.Context, limit int) ([]PredictionRecord, error)
	Close()
}

// ClampLimit normalizes a caller-supplied query limit: non-positive
// values fall back to the default, oversized values are capped.
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}
