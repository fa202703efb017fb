package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProductIsLow(t *testing.T) {
	cases := []struct {
		name    string
		product Product
		want    bool
	}{
		{"tracked and below threshold", Product{LowStockTracked: true, Quantity: 2, MinQuantity: 5}, true},
		{"tracked and exactly at threshold", Product{LowStockTracked: true, Quantity: 5, MinQuantity: 5}, true},
		{"tracked and above threshold", Product{LowStockTracked: true, Quantity: 6, MinQuantity: 5}, false},
		{"untracked below threshold", Product{LowStockTracked: false, Quantity: 0, MinQuantity: 5}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.product.IsLow())
		})
	}
}

func TestTransactionDebtState(t *testing.T) {
	resolvedAt := time.Now()

	cases := []struct {
		name string
		txn  Transaction
		want DebtState
	}{
		{"plain outbound", Transaction{Type: MovementOutbound}, DebtStandard},
		{"pending debt", Transaction{Type: MovementOutbound, IsDebt: true}, DebtPending},
		{"resolved debt", Transaction{Type: MovementOutbound, ResolutionDate: &resolvedAt}, DebtResolved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.txn.DebtState())
		})
	}
}

func TestMovementTypeValid(t *testing.T) {
	assert.True(t, MovementInbound.Valid())
	assert.True(t, MovementOutbound.Valid())
	assert.False(t, MovementType("adjust").Valid())
	assert.False(t, MovementType("").Valid())
}

func TestOptionKindProductField(t *testing.T) {
	assert.Equal(t, "warehouse", OptionWarehouses.ProductField())
	assert.Equal(t, "rack", OptionRacks.ProductField())
	assert.Equal(t, "category", OptionCategories.ProductField())
	assert.Equal(t, "unit", OptionUnits.ProductField())
	assert.False(t, OptionKind("colors").Valid())
}
