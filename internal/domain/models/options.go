package models

// OptionKind enumerates the set-valued option categories kept in the registry.
type OptionKind string

const (
	OptionWarehouses OptionKind = "warehouses"
	OptionRacks      OptionKind = "racks"
	OptionCategories OptionKind = "categories"
	OptionUnits      OptionKind = "units"
)

// Valid reports whether the kind is one of the registry categories.
func (k OptionKind) Valid() bool {
	switch k {
	case OptionWarehouses, OptionRacks, OptionCategories, OptionUnits:
		return true
	}
	return false
}

// ProductField returns the product attribute a registry kind feeds, used when a
// rename has to cascade into the catalog.
func (k OptionKind) ProductField() string {
	switch k {
	case OptionWarehouses:
		return "warehouse"
	case OptionRacks:
		return "rack"
	case OptionCategories:
		return "category"
	case OptionUnits:
		return "unit"
	}
	return ""
}

// OptionSet is the stored document shape: one document per kind.
type OptionSet struct {
	Kind   OptionKind `bson:"kind" json:"kind"`
	Values []string   `bson:"values" json:"values"`
}
