package reconcile

import "github.com/mamadbah2/depot/internal/domain/models"

// clusterPalette is the fixed set of highlight colors for duplicate clusters.
// Once clusters outnumber colors the palette wraps around.
var clusterPalette = [...]string{
	"#EF9A9A",
	"#90CAF9",
	"#A5D6A7",
	"#FFE082",
	"#CE93D8",
	"#80CBC4",
	"#FFAB91",
	"#B0BEC5",
}

// ClusterDuplicates tags candidate rows that collide with each other on
// normalized nomenclature, before any commit. The result maps a candidate's
// index to its cluster color; indices absent from the map are not in any
// cluster. Clusters are colored in the order they are first discovered while
// scanning top to bottom.
//
// The coloring is advisory, for review highlighting only. The importer always
// re-derives duplicates against the live catalog and ignores this grouping.
func ClusterDuplicates(candidates []models.ScannedItem) map[int]string {
	indexesByKey := make(map[string][]int)
	keyOrder := make([]string, 0, len(candidates))

	for i, item := range candidates {
		key := normalizeKey(item.Nomenclature)
		if key == "" {
			continue
		}
		if _, seen := indexesByKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		indexesByKey[key] = append(indexesByKey[key], i)
	}

	colors := make(map[int]string)
	cluster := 0
	for _, key := range keyOrder {
		indices := indexesByKey[key]
		if len(indices) < 2 {
			continue
		}
		color := clusterPalette[cluster%len(clusterPalette)]
		for _, idx := range indices {
			colors[idx] = color
		}
		cluster++
	}
	return colors
}
