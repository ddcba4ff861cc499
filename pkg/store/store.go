// Package store persists render history: every successful pipeline run
// through the server can be recorded and fetched back by ID later.
//
// Two implementations exist: a mongo-backed store for deployments and an
// in-memory store for tests and cacheless single-process runs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/figflow/figflow/pkg/errors"
)

// Record is one rendered diagram kept in history.
type Record struct {
	ID        string    `bson:"_id" json:"id"`
	PlanHash  string    `bson:"plan_hash" json:"planHash"`
	Title     string    `bson:"title,omitempty" json:"title,omitempty"`
	Format    string    `bson:"format" json:"format"`
	Artifact  []byte    `bson:"artifact" json:"artifact"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Store persists and retrieves render records.
type Store interface {
	// Save stores a record, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, rec *Record) error
	// Get fetches a record by ID. Returns a NOT_FOUND error when the ID
	// is unknown.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int64) ([]Record, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp fills in ID and CreatedAt for a record about to be saved.
func stamp(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "render record %q not found", id)
}
