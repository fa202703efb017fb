package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovementType distinguishes stock entering from stock leaving the warehouse.
type MovementType string

const (
	MovementInbound  MovementType = "inbound"
	MovementOutbound MovementType = "outbound"
)

// Valid reports whether the movement type is one of the two supported values.
func (m MovementType) Valid() bool {
	return m == MovementInbound || m == MovementOutbound
}

// DebtState is the derived lifecycle state of a transaction's debt tail.
type DebtState string

const (
	DebtStandard DebtState = "standard"
	DebtPending  DebtState = "pending"
	DebtResolved DebtState = "resolved"
)

// Transaction is an immutable audit record of one stock movement. Only the debt
// fields (is_debt, resolution_image, resolution_date) ever change after creation.
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`

	// Snapshots taken at movement time, so the audit trail survives later
	// renames of the product.
	ProductName         string `bson:"product_name" json:"product_name"`
	ProductNomenclature string `bson:"product_nomenclature" json:"product_nomenclature"`

	Type     MovementType `bson:"type" json:"type"`
	Quantity float64      `bson:"quantity" json:"quantity"`
	Unit     string       `bson:"unit" json:"unit"`
	Date     time.Time    `bson:"date" json:"date"`
	Receiver string       `bson:"receiver" json:"receiver"`
	Notes    string       `bson:"notes,omitempty" json:"notes,omitempty"`
	Images   []string     `bson:"images,omitempty" json:"images,omitempty"`

	IsDebt          bool       `bson:"is_debt" json:"is_debt"`
	ResolutionImage string     `bson:"resolution_image,omitempty" json:"resolution_image,omitempty"`
	ResolutionDate  *time.Time `bson:"resolution_date,omitempty" json:"resolution_date,omitempty"`

	RecordedBy string `bson:"recorded_by,omitempty" json:"recorded_by,omitempty"`
}

// DebtState derives the current debt lifecycle state from the stored fields.
func (t *Transaction) DebtState() DebtState {
	switch {
	case t.IsDebt && t.ResolutionDate == nil:
		return DebtPending
	case !t.IsDebt && t.ResolutionDate != nil:
		return DebtResolved
	default:
		return DebtStandard
	}
}
