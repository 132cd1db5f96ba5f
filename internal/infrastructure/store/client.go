package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/ricemill/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Store node paths under the database root.
const (
	pathDrivers   = "drivers"
	pathVehicles  = "vehicles"
	pathOrders    = "orders"
	pathSales     = "sales"
	pathInventory = "inventory"
)

// Client reads snapshots from the mill's hierarchical document store
// over its REST surface (GET {base}/{path}.json). It is read-only; all
// writes belong to the console UI.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	authToken   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new document store client
func NewClient(baseURL, authToken string) *Client {
	// The store tolerates bursts but sustained hammering gets throttled
	// upstream, so smooth reads to 5 req/s with a burst of 10.
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		authToken:   authToken,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before the given retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// fetch executes a rate-limited GET against a store node and decodes
// the JSON payload into out, retrying transient failures.
func (c *Client) fetch(ctx context.Context, path string, out any) error {
	reqURL := fmt.Sprintf("%s/%s.json", c.baseURL, path)
	if c.authToken != "" {
		params := url.Values{}
		params.Add("auth", c.authToken)
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "RiceMillConsole/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[STORE] request error (attempt %d) for %s: %v", attempt, path, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreAPIFailure, err)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[STORE] error (attempt %d) for %s - status: %d, body: %s", attempt, path, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreAPIFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		if c.debug {
			log.Printf("[STORE] fetched %s (%d bytes)", path, len(body))
		}
		return nil
	}

	return lastErr
}

// fetchNode reads a collection node, which the store returns as a
// push-key -> record object (or null when the node is empty).
func (c *Client) fetchNode(ctx context.Context, path string) (map[string]map[string]any, error) {
	var node map[string]map[string]any
	if err := c.fetch(ctx, path, &node); err != nil {
		return nil, err
	}
	return node, nil
}

// ListDrivers returns a snapshot of all drivers
func (c *Client) ListDrivers(ctx context.Context) ([]domain.Driver, error) {
	node, err := c.fetchNode(ctx, pathDrivers)
	if err != nil {
		return nil, err
	}

	drivers := make([]domain.Driver, 0, len(node))
	for _, key := range sortedKeys(node) {
		drivers = append(drivers, mapDriver(key, node[key]))
	}
	return drivers, nil
}

// ListVehicles returns a snapshot of all vehicles
func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	node, err := c.fetchNode(ctx, pathVehicles)
	if err != nil {
		return nil, err
	}

	vehicles := make([]domain.Vehicle, 0, len(node))
	for _, key := range sortedKeys(node) {
		vehicles = append(vehicles, mapVehicle(key, node[key]))
	}
	return vehicles, nil
}

// ListOrders returns a snapshot of all transport orders
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	node, err := c.fetchNode(ctx, pathOrders)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(node))
	for _, key := range sortedKeys(node) {
		orders = append(orders, mapOrder(key, node[key]))
	}
	return orders, nil
}

// GetOrder returns a single order by id. The store answers "null" for a
// missing key, which surfaces here as ErrOrderNotFound.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var raw map[string]any
	if err := c.fetch(ctx, pathOrders+"/"+id, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.ErrOrderNotFound
	}

	order := mapOrder(id, raw)
	return &order, nil
}

// ListSales returns the historical sales records
func (c *Client) ListSales(ctx context.Context) ([]domain.SalesRecord, error) {
	node, err := c.fetchNode(ctx, pathSales)
	if err != nil {
		return nil, err
	}

	sales := make([]domain.SalesRecord, 0, len(node))
	for _, key := range sortedKeys(node) {
		sales = append(sales, mapSalesRecord(node[key]))
	}
	return sales, nil
}

// ListInventory returns the inventory records used as a price index
func (c *Client) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	node, err := c.fetchNode(ctx, pathInventory)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InventoryItem, 0, len(node))
	for _, key := range sortedKeys(node) {
		items = append(items, mapInventoryItem(node[key]))
	}
	return items, nil
}
