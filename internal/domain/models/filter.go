package models

// ProductFilter is a closed set of catalog query criteria. Each variant carries
// a typed payload; combining several filters means intersecting them.
type ProductFilter interface {
	isProductFilter()
}

// ByCategory matches products with the exact category label.
type ByCategory struct {
	Category string
}

// ByWarehouse matches products stored in the given warehouse.
type ByWarehouse struct {
	Warehouse string
}

// ByNomenclature matches the product carrying the exact stock-keeping code.
type ByNomenclature struct {
	Nomenclature string
}

// LowStockOnly matches tracked products at or below their alert threshold.
type LowStockOnly struct{}

func (ByCategory) isProductFilter()     {}
func (ByWarehouse) isProductFilter()    {}
func (ByNomenclature) isProductFilter() {}
func (LowStockOnly) isProductFilter()   {}
