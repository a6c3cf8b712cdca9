package catalog

import (
	"context"
	"sync"

	"housematch/internal/model"
)

// MemoryCatalog serves a fixed set of houses from memory. Used in tests
// and when no catalog database is configured.
type MemoryCatalog struct {
	mu     sync.RWMutex
	houses []model.House
	views  []ViewEvent
}

// ViewEvent is one recorded house view.
type ViewEvent struct {
	UserID  int64
	HouseID int64
}

// NewMemoryCatalog creates a catalog over the given houses.
func NewMemoryCatalog(houses []model.House) *MemoryCatalog {
	return &MemoryCatalog{houses: append([]model.House(nil), houses...)}
}

// GetAll implements Catalog.
func (c *MemoryCatalog) GetAll(ctx context.Context) ([]model.House, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]model.House(nil), c.houses...), nil
}

// GetByID implements Catalog.
func (c *MemoryCatalog) GetByID(ctx context.Context, id int64) (*model.House, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.houses {
		if c.houses[i].ID == id {
			h := c.houses[i]
			return &h, nil
		}
	}
	return nil, nil
}

// LogView implements ViewLogger.
func (c *MemoryCatalog) LogView(ctx context.Context, userID, houseID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.views = append(c.views, ViewEvent{UserID: userID, HouseID: houseID})
	return nil
}

// Views returns the recorded view events.
func (c *MemoryCatalog) Views() []ViewEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]ViewEvent(nil), c.views...)
}
