package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common measurement units. Free-text values beyond this set are accepted.
const (
	UnitPieces    = "pcs"
	UnitKilograms = "kg"
	UnitMeters    = "m"
	UnitLiters    = "l"
)

// Product is a stocked item in the catalog.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nomenclature    string             `bson:"nomenclature" json:"nomenclature"`
	Name            string             `bson:"name" json:"name"`
	Category        string             `bson:"category" json:"category"`
	Warehouse       string             `bson:"warehouse" json:"warehouse"`
	Rack            string             `bson:"rack" json:"rack"`
	Quantity        float64            `bson:"quantity" json:"quantity"`
	Unit            string             `bson:"unit" json:"unit"`
	MinQuantity     float64            `bson:"min_quantity" json:"min_quantity"`
	LowStockTracked bool               `bson:"low_stock_tracked" json:"low_stock_tracked"`
	DateAdded       time.Time          `bson:"date_added" json:"date_added"`
	LastUpdated     time.Time          `bson:"last_updated" json:"last_updated"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
}

// IsLow reports whether the product is below its alert threshold. The flag is
// derived on every read and never persisted.
func (p *Product) IsLow() bool {
	return p.LowStockTracked && p.Quantity <= p.MinQuantity
}

// ProductUpdate carries the mutable descriptive fields of a product. Quantity is
// deliberately absent: quantities only change through stock movements.
type ProductUpdate struct {
	Name            *string   `json:"name,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Warehouse       *string   `json:"warehouse,omitempty"`
	Rack            *string   `json:"rack,omitempty"`
	Unit            *string   `json:"unit,omitempty"`
	MinQuantity     *float64  `json:"min_quantity,omitempty"`
	LowStockTracked *bool     `json:"low_stock_tracked,omitempty"`
	Images          *[]string `json:"images,omitempty"`
}
