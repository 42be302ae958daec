// Package orderstore is the HTTP client for the reservation API. All engine
// code consumes it through an interface, so the transport and the two list
// payload shapes the API historically served stay contained here.
package orderstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

// Failure taxonomy. A malformed response body is a transport-class failure:
// callers roll back and reload either way.
var (
	// ErrTransport covers network failures, non-2xx statuses and response
	// bodies that cannot be parsed.
	ErrTransport = errors.New("orderstore: transport failure")

	// ErrRejected is a well-formed response with success=false.
	ErrRejected = errors.New("orderstore: rejected by server")
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// StatusResponse is the {success, error} contract every mutating endpoint
// answers with.
type StatusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges the store passphrase for a session token and keeps it on
// the client for subsequent calls.
func (c *Client) Login(ctx context.Context, password string) error {
	jsonData, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/login", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: malformed login response: %v", ErrTransport, err)
	}
	if !result.Success || result.Token == "" {
		if result.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, result.Error)
		}
		return fmt.Errorf("%w: login failed (status %d)", ErrRejected, resp.StatusCode)
	}

	c.Token = result.Token
	return nil
}

// List fetches the order collection, optionally filtered server-side by a
// search term. The API has served both a bare array and wrapped objects
// ({"orders": [...]} or {"data": [...]}); all shapes normalize to []Order
// before anything downstream sees them.
func (c *Client) List(ctx context.Context, search string) ([]models.Order, error) {
	url := c.BaseURL + "/api/list"
	if search != "" {
		url += "?search=" + neturl.QueryEscape(search)
	}

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	// Bare array first
	var orders []models.Order
	if err := json.Unmarshal(body, &orders); err == nil {
		return orders, nil
	}

	// Wrapped object
	var wrapped struct {
		Orders []models.Order `json:"orders"`
		Data   []models.Order `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: malformed list response: %v", ErrTransport, err)
	}
	if wrapped.Orders != nil {
		return wrapped.Orders, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	return nil, fmt.Errorf("%w: list response has no recognizable order array", ErrTransport)
}

// UpdateStatus changes one order's status. Success means HTTP-level success
// and a {"success": true} payload; anything else is a failure.
func (c *Client) UpdateStatus(ctx context.Context, id uint, status models.Status) error {
	url := fmt.Sprintf("%s/api/reservar/%d", c.BaseURL, id)
	payload := map[string]models.Status{"status": status}
	return c.put(ctx, url, payload)
}

// ReplaceOrder overwrites the full record, lines included. Used by the edit
// workflow; the server swaps the record wholesale rather than merging fields.
func (c *Client) ReplaceOrder(ctx context.Context, order *models.Order) error {
	url := fmt.Sprintf("%s/api/orders/%d", c.BaseURL, order.ID)
	return c.put(ctx, url, order)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}
	return body, nil
}

func (c *Client) put(ctx context.Context, url string, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var result StatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: malformed response (status %d): %v", ErrTransport, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		if result.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, result.Error)
		}
		return fmt.Errorf("%w: save failed (status %d)", ErrRejected, resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}
