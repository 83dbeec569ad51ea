package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"gearbook/pkg/model"
)

// InventoryClient talks to the external inventory service that owns the
// equipment catalog.
type InventoryClient struct {
	httpClient *HttpClient
}

func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *InventoryClient) List(ctx context.Context) ([]model.Equipment, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/equipment")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var payload struct {
		Data []model.Equipment `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode equipment list: %w", err)
	}
	return payload.Data, nil
}

func (c *InventoryClient) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/equipment/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var payload struct {
		Data model.Equipment `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode equipment: %w", err)
	}
	return &payload.Data, nil
}
