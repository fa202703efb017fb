package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/depot/internal/domain/models"
)

func TestClusterDuplicates_CollidingRowsShareColor(t *testing.T) {
	candidates := []models.ScannedItem{
		{Nomenclature: "A1"},
		{Nomenclature: "B2"},
		{Nomenclature: " a1 "},
	}

	colors := ClusterDuplicates(candidates)

	require.Contains(t, colors, 0)
	require.Contains(t, colors, 2)
	assert.Equal(t, colors[0], colors[2])
	assert.NotContains(t, colors, 1)
}

func TestClusterDuplicates_DiscoveryOrderDrivesPalette(t *testing.T) {
	candidates := []models.ScannedItem{
		{Nomenclature: "first"},
		{Nomenclature: "second"},
		{Nomenclature: "second"},
		{Nomenclature: "first"},
	}

	colors := ClusterDuplicates(candidates)

	assert.Equal(t, clusterPalette[0], colors[0])
	assert.Equal(t, clusterPalette[0], colors[3])
	assert.Equal(t, clusterPalette[1], colors[1])
	assert.Equal(t, clusterPalette[1], colors[2])
}

func TestClusterDuplicates_PaletteWraps(t *testing.T) {
	var candidates []models.ScannedItem
	clusters := len(clusterPalette) + 1
	for i := 0; i < clusters; i++ {
		code := fmt.Sprintf("code-%d", i)
		candidates = append(candidates,
			models.ScannedItem{Nomenclature: code},
			models.ScannedItem{Nomenclature: code})
	}

	colors := ClusterDuplicates(candidates)

	// The last cluster reuses the first palette entry.
	lastIndex := 2 * (clusters - 1)
	assert.Equal(t, clusterPalette[0], colors[lastIndex])
}

func TestClusterDuplicates_IgnoresEmptyNomenclature(t *testing.T) {
	candidates := []models.ScannedItem{
		{Nomenclature: ""},
		{Nomenclature: "   "},
		{Nomenclature: "X"},
	}

	colors := ClusterDuplicates(candidates)
	assert.Empty(t, colors)
}
