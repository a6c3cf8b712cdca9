package catalog

import (
	"context"

	"housematch/internal/model"
)

// Catalog is the read interface over the house records. The matching
// engine only ever reads it.
type Catalog interface {
	// GetAll returns a snapshot of every house in the catalog.
	GetAll(ctx context.Context) ([]model.House, error)
	// GetByID returns (nil, nil) when no house has the given ID.
	GetByID(ctx context.Context, id int64) (*model.House, error)
}

// ViewLogger records that a user viewed a house. Pass-through
// analytics: the engine forwards the event and never interprets it.
type ViewLogger interface {
	LogView(ctx context.Context, userID, houseID int64) error
}
