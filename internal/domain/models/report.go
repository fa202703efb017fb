package models

import "time"

// LowStockLine is one alerting product inside a stock report.
type LowStockLine struct {
	Nomenclature string  `bson:"nomenclature" json:"nomenclature"`
	Name         string  `bson:"name" json:"name"`
	Warehouse    string  `bson:"warehouse" json:"warehouse"`
	Quantity     float64 `bson:"quantity" json:"quantity"`
	MinQuantity  float64 `bson:"min_quantity" json:"min_quantity"`
	Unit         string  `bson:"unit" json:"unit"`
}

// StockReport is the scheduled daily snapshot of catalog health stored in MongoDB.
type StockReport struct {
	Date         time.Time      `bson:"date" json:"date"`
	ProductCount int            `bson:"product_count" json:"product_count"`
	LowStock     []LowStockLine `bson:"low_stock" json:"low_stock"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
}
