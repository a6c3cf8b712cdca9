package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"housematch/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const houseColumns = `id, name, price, area, bedrooms, bathrooms, floors, description, badges, image_url, url`

// PostgresCatalog reads the houses table populated by the catalog
// scraper and records view analytics.
type PostgresCatalog struct {
	db *sqlx.DB
}

// NewPostgresCatalog connects to the catalog database.
func NewPostgresCatalog(dsn string, maxConn, maxIdleConn int) (*PostgresCatalog, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCatalog{db: db}, nil
}

// Close closes the database connection.
func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}

// GetAll implements Catalog. The catalog is small enough to snapshot
// whole; matching operates on the snapshot, never the table.
func (c *PostgresCatalog) GetAll(ctx context.Context) ([]model.House, error) {
	query := fmt.Sprintf(`SELECT %s FROM houses ORDER BY id`, houseColumns)

	var houses []model.House
	if err := c.db.SelectContext(ctx, &houses, query); err != nil {
		return nil, fmt.Errorf("failed to fetch houses: %w", err)
	}
	return houses, nil
}

// GetByID implements Catalog.
func (c *PostgresCatalog) GetByID(ctx context.Context, id int64) (*model.House, error) {
	query := fmt.Sprintf(`SELECT %s FROM houses WHERE id = $1`, houseColumns)

	var house model.House
	if err := c.db.GetContext(ctx, &house, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get house %d: %w", id, err)
	}
	return &house, nil
}

// LogView implements ViewLogger.
func (c *PostgresCatalog) LogView(ctx context.Context, userID, houseID int64) error {
	query := `
		INSERT INTO statistics (user_id, action, house_id)
		VALUES ($1, 'house_view', $2)
	`
	if _, err := c.db.ExecContext(ctx, query, userID, houseID); err != nil {
		return fmt.Errorf("failed to log view: %w", err)
	}
	return nil
}
