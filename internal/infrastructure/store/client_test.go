package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricemill/backend/internal/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://mill.example.com", "secret")

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, "https://mill.example.com", client.baseURL)
	assert.Equal(t, "secret", client.authToken)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, exponentialBackoff(1))
	assert.Equal(t, 1*time.Second, exponentialBackoff(2))
	assert.Equal(t, 2*time.Second, exponentialBackoff(3))
}

func TestListDrivers(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drivers.json", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("auth"))
		w.Write([]byte(`{
			"-Nb2": {"name": "Suresh", "rating": "4.2", "isAvailable": "true", "status": "Active"},
			"-Nb1": {"id": "d1", "name": "Ramesh", "rating": 4.8, "isAvailable": true, "status": "Active",
				"preferredVehicleTypes": ["Truck", "Lorry"]}
		}`))
	})

	client := NewClient(server.URL, "secret")
	drivers, err := client.ListDrivers(context.Background())
	require.NoError(t, err)
	require.Len(t, drivers, 2)

	// Push keys are sorted, so -Nb1 comes first.
	assert.Equal(t, "d1", drivers[0].ID)
	assert.Equal(t, "Ramesh", drivers[0].Name)
	assert.Equal(t, 4.8, drivers[0].Rating)
	assert.True(t, drivers[0].IsAvailable)
	assert.Equal(t, []string{"Truck", "Lorry"}, drivers[0].PreferredVehicleTypes)

	// Record without an id field falls back to its push key, and
	// string-typed fields are normalized.
	assert.Equal(t, "-Nb2", drivers[1].ID)
	assert.Equal(t, 4.2, drivers[1].Rating)
	assert.True(t, drivers[1].IsAvailable)
}

func TestListVehiclesKeepsRawCapacity(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"v1": {"id": "v1", "type": "Truck", "capacity": "5000 kg", "status": "Active"},
			"v2": {"id": "v2", "type": "Lorry", "capacity": 3200, "status": "Active"}
		}`))
	})

	client := NewClient(server.URL, "")
	vehicles, err := client.ListVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	// Capacity is left untyped for the unit parser downstream.
	assert.Equal(t, "5000 kg", vehicles[0].Capacity)
	assert.Equal(t, float64(3200), vehicles[1].Capacity)
}

func TestGetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders/o1.json", r.URL.Path)
			w.Write([]byte(`{
				"type": "delivery", "status": "pending", "quantity": "1000",
				"estimatedDistance": 80,
				"items": {"i1": {"quantity": 600}, "i2": {"quantity": 400}}
			}`))
		})

		client := NewClient(server.URL, "")
		order, err := client.GetOrder(context.Background(), "o1")
		require.NoError(t, err)

		assert.Equal(t, "o1", order.ID)
		assert.Equal(t, "delivery", order.Type)
		require.NotNil(t, order.Quantity)
		assert.Equal(t, float64(1000), *order.Quantity)
		assert.Equal(t, float64(80), order.EstimatedDistance)
		require.Len(t, order.Items, 2)
		assert.Equal(t, float64(600), order.Items[0].Quantity)
	})

	t.Run("missing keys answer null", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		})

		client := NewClient(server.URL, "")
		_, err := client.GetOrder(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestListSales(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"s1": {"date": "2025-06-01", "product": "Basmati Rice", "quantity": 120, "amount": 6000},
			"s2": {"date": "2025-06-02", "product": "Brown Rice", "quantity": "80"}
		}`))
	})

	client := NewClient(server.URL, "")
	sales, err := client.ListSales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 2)

	assert.Equal(t, "Basmati Rice", sales[0].Product)
	assert.Equal(t, float64(120), sales[0].Quantity)
	assert.Equal(t, float64(80), sales[1].Quantity)
}

func TestListInventory(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"i1": {"name": "Basmati Rice", "pricePerKg": 55},
			"i2": {"product": "Rice Bran", "price": "18"}
		}`))
	})

	client := NewClient(server.URL, "")
	items, err := client.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Basmati Rice", items[0].Name)
	assert.Equal(t, float64(55), items[0].PricePerKg)

	// Alternate field names used by older console pages.
	assert.Equal(t, "Rice Bran", items[1].Name)
	assert.Equal(t, float64(18), items[1].PricePerKg)
}

func TestEmptyNode(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	client := NewClient(server.URL, "")
	drivers, err := client.ListDrivers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drivers)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"d1": {"name": "Ramesh"}}`))
	})

	client := NewClient(server.URL, "")
	drivers, err := client.ListDrivers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Ramesh", drivers[0].Name)
}

func TestFetchGivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := NewClient(server.URL, "")
	_, err := client.ListSales(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreAPIFailure)
	assert.Equal(t, 3, attempts)
}
