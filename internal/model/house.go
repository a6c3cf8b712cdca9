package model

import (
	"github.com/lib/pq"
)

// House represents a single catalog record. The catalog is third-party
// data of uneven completeness: price, area and room counts may be
// absent, and absent values must never be treated as zero.
type House struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Price       *float64       `json:"price,omitempty" db:"price"`
	Area        *float64       `json:"area,omitempty" db:"area"`
	Bedrooms    *int           `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms   *int           `json:"bathrooms,omitempty" db:"bathrooms"`
	Floors      *int           `json:"floors,omitempty" db:"floors"`
	Description *string        `json:"description,omitempty" db:"description"`
	Badges      pq.StringArray `json:"badges,omitempty" db:"badges"`
	ImageURL    *string        `json:"image_url,omitempty" db:"image_url"`
	URL         string         `json:"url" db:"url"`
}
