package models

// ScannedItem is a transient candidate record produced by the recognition or
// spreadsheet collaborator. It has no identity and is discarded after import.
type ScannedItem struct {
	Nomenclature string  `json:"nomenclature"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Warehouse    string  `json:"warehouse"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`

	// Selected is UI state: only checked rows are submitted for commit.
	Selected bool `json:"selected"`
}
