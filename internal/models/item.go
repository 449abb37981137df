package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one row of the catalog cache. The marketplace is the system of
// record; this table always holds the full snapshot of the last successful
// sync.
type Item struct {
	ID                string          `json:"id" gorm:"primaryKey"`
	Title             string          `json:"title" gorm:"not null"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	AvailableQuantity int             `json:"available_quantity" gorm:"not null;default:0"`
	Condition         string          `json:"condition"`
	Thumbnail         string          `json:"thumbnail"`
	Status            string          `json:"status"`

	// Pictures is stored serialized in the pictures column; the store layer
	// handles the encoding so a corrupt value degrades to an empty slice
	// instead of failing the listing.
	Pictures    []string `json:"pictures" gorm:"-"`
	PicturesRaw string   `json:"-" gorm:"column:pictures"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ItemStatus string

const (
	StatusActive ItemStatus = "active"
	StatusPaused ItemStatus = "paused"
	StatusClosed ItemStatus = "closed"
)

type ItemCondition string

const (
	ConditionNew  ItemCondition = "new"
	ConditionUsed ItemCondition = "used"
)
