package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/depot/internal/config"
	"github.com/mamadbah2/depot/internal/domain/models"
)

// Importer parses a spreadsheet into candidate items for reconciliation.
type Importer interface {
	Parse(ctx context.Context, spreadsheetID string) ([]models.ScannedItem, error)
}

// GoogleSheetImporter implements the Importer interface using the official
// Google Sheets API.
type GoogleSheetImporter struct {
	service *sheetsapi.Service
	logger  *zap.Logger
}

// NewGoogleSheetImporter builds a Google Sheets backed importer instance.
func NewGoogleSheetImporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Importer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetImporter{service: service, logger: logger}, nil
}

// Parse reads the spreadsheet and maps its rows to candidate items. Column
// positions are fixed by convention (see mapRow). A multi-sheet document, a
// document without data rows, or one where no row survives mapping is a
// format error; nothing is ever written.
func (g *GoogleSheetImporter) Parse(ctx context.Context, spreadsheetID string) ([]models.ScannedItem, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID must not be empty: %w", models.ErrValidation)
	}

	doc, err := g.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch spreadsheet %s: %w", spreadsheetID, err)
	}

	if len(doc.Sheets) != 1 {
		return nil, fmt.Errorf("expected exactly one sheet, found %d: %w", len(doc.Sheets), models.ErrImportFormat)
	}

	title := doc.Sheets[0].Properties.Title
	resp, err := g.service.Spreadsheets.Values.Get(spreadsheetID, fmt.Sprintf("%s!A:F", title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", title, err)
	}

	// First row is the header by convention.
	if len(resp.Values) < 2 {
		return nil, fmt.Errorf("sheet has no data rows: %w", models.ErrImportFormat)
	}

	items, skipped := mapRows(resp.Values[1:])
	if skipped > 0 {
		g.logger.Debug("skipped unparseable sheet rows", zap.Int("skipped", skipped))
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no parseable rows in sheet: %w", models.ErrImportFormat)
	}

	g.logger.Info("spreadsheet parsed",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("rows", len(items)))
	return items, nil
}
