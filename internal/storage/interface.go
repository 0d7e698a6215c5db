package storage

import (
	"context"

	"github.com/mcoot/clickgame-go/internal/model"
)

// Storage defines the interface for player record persistence
type Storage interface {
	// GetPlayerRecord returns model.ErrRecordNotFound when no record exists
	GetPlayerRecord(ctx context.Context, id model.ExternalID) (*model.StoredRecord, error)

	// InsertPlayerRecord returns model.ErrRecordExists when a record already exists
	InsertPlayerRecord(ctx context.Context, rec *model.StoredRecord) error

	// UpdatePlayerRecord replaces an existing record; model.ErrRecordNotFound when absent
	UpdatePlayerRecord(ctx context.Context, rec *model.StoredRecord) error

	// Close releases backend resources
	Close() error
}
