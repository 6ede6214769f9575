// Package dataplans is a minimal HTTP client for the DataPlans catalog API.
// It resolves the provider's historical field-name variants into canonical
// structs at the decoding boundary, so nothing downstream branches on
// field aliases.
package dataplans

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for interacting with the DataPlans API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient constructs a new DataPlans client with sane defaults.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		token:      token,
	}
}

// GetCountries fetches the country list.
func (c *Client) GetCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.doGet(ctx, "/countries", &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// GetPlans fetches the full plan catalog.
func (c *Client) GetPlans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.doGet(ctx, "/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) doGet(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("dataplans: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dataplans: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("dataplans: read %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("dataplans request")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataplans: %s returned status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("dataplans: decode %s: %w", path, err)
	}
	return nil
}
