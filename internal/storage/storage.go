// Package storage persists saved adventures. Implementations share one
// contract: not-found reads return nil without error, and saves are upserts
// keyed by the adventure id.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
)

// Store is the persistence interface for saved adventures.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveAdventure upserts a saved adventure under its id
	SaveAdventure(ctx context.Context, sa *adventure.SavedAdventure) error

	// GetAdventure retrieves a saved adventure by id
	// Returns nil if the adventure doesn't exist
	GetAdventure(ctx context.Context, id uuid.UUID) (*adventure.SavedAdventure, error)

	// ListAdventures returns all saved adventures
	ListAdventures(ctx context.Context) ([]adventure.SavedAdventure, error)

	// DeleteAdventure removes a saved adventure by id
	DeleteAdventure(ctx context.Context, id uuid.UUID) error
}
