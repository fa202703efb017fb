package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/depot/internal/domain/models"
)

// Fixed column layout of the import sheet, by convention:
// A nomenclature, B name, C category, D warehouse, E unit, F quantity.
const (
	colNomenclature = 0
	colName         = 1
	colCategory     = 2
	colWarehouse    = 3
	colUnit         = 4
	colQuantity     = 5
)

// mapRows converts raw sheet rows into candidate items. Rows missing both a
// nomenclature and a name, or carrying an unparseable quantity, are dropped
// and counted instead of failing the whole parse.
func mapRows(rows [][]interface{}) ([]models.ScannedItem, int) {
	items := make([]models.ScannedItem, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		item, ok := mapRow(row)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

func mapRow(row []interface{}) (models.ScannedItem, bool) {
	item := models.ScannedItem{
		Nomenclature: cellString(row, colNomenclature),
		Name:         cellString(row, colName),
		Category:     cellString(row, colCategory),
		Warehouse:    cellString(row, colWarehouse),
		Unit:         cellString(row, colUnit),
		Selected:     true,
	}

	if item.Nomenclature == "" && item.Name == "" {
		return models.ScannedItem{}, false
	}

	quantity, err := cellFloat(row, colQuantity)
	if err != nil || quantity < 0 {
		return models.ScannedItem{}, false
	}
	item.Quantity = quantity

	return item, true
}

func cellString(row []interface{}, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[index]))
}

func cellFloat(row []interface{}, index int) (float64, error) {
	str := cellString(row, index)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	// Sheets localized for French-speaking users export decimal commas.
	str = strings.ReplaceAll(str, ",", ".")
	return strconv.ParseFloat(str, 64)
}
