package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/depot/internal/config"
	"github.com/mamadbah2/depot/internal/domain/models"
)

// Client exposes the document-recognition operations used by the application.
// The service receives a stock document photo and returns the item rows it
// recognized; it never writes anything.
type Client interface {
	Scan(ctx context.Context, imageURL string) ([]models.ScannedItem, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a vision API client using the provided configuration values.
func NewClient(cfg config.VisionConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &APIClient{httpClient: restyClient}
}

type scanRequest struct {
	ImageURL string `json:"image_url"`
}

type scanResponse struct {
	Items []scannedRow `json:"items"`
}

type scannedRow struct {
	Nomenclature string  `json:"nomenclature"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Warehouse    string  `json:"warehouse"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
}

// apiError represents a vision service error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Scan submits an image for recognition and returns the normalized candidate
// rows. A document the service could not extract a single row from is a
// format error, not an empty result.
func (c *APIClient) Scan(ctx context.Context, imageURL string) ([]models.ScannedItem, error) {
	result := new(scanResponse)
	svcErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(scanRequest{ImageURL: imageURL}).
		SetResult(result).
		SetError(svcErr).
		Post("/v1/recognize")
	if err != nil {
		return nil, fmt.Errorf("call vision service: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := svcErr.Error.Message
		code := resp.StatusCode()
		if svcErr.Error.Code != 0 {
			code = svcErr.Error.Code
		}
		if resp.StatusCode() == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("vision service rejected document (code=%d, message=%s): %w", code, message, models.ErrImportFormat)
		}
		return nil, fmt.Errorf("vision service error: code=%d, message=%s", code, message)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("no rows recognized in document: %w", models.ErrImportFormat)
	}

	items := make([]models.ScannedItem, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, models.ScannedItem{
			Nomenclature: row.Nomenclature,
			Name:         row.Name,
			Category:     row.Category,
			Warehouse:    row.Warehouse,
			Unit:         row.Unit,
			Quantity:     row.Quantity,
			Selected:     true,
		})
	}
	return items, nil
}
