// Package backend is the HTTP client for the user-data backend API, the
// system of record for user profiles and saved Notion summaries.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NotionRecord is the five-field payload the backend stores per saved page.
// Repeated saves for the same page id are treated as upsert-by-id; the
// backend gives no exactly-once guarantee.
type NotionRecord struct {
	UserID       string `json:"user_id"`
	Content      string `json:"content"`
	NotionURL    string `json:"notion_url"`
	NotionPageID string `json:"notion_page_id"`
	Summary      string `json:"summary"`
}

// Client talks to the backend REST API. It holds no state beyond the
// base URL and a shared http.Client with a request timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client. timeout bounds every request end to end.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetUser fetches the profile for userID. A non-2xx status is an error.
func (c *Client) GetUser(ctx context.Context, userID string) (map[string]any, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d for user %s", resp.StatusCode, userID)
	}

	return decodeBody(resp.Body)
}

// SaveNotionRecord stores a Notion page record for userID.
func (c *Client) SaveNotionRecord(ctx context.Context, userID string, rec NotionRecord) (map[string]any, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/users/%s/notion", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("backend returned status %d saving notion data for user %s", resp.StatusCode, userID)
	}

	return decodeBody(resp.Body)
}

func decodeBody(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}
	return out, nil
}
