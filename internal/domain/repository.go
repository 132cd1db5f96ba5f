package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// StoreClient defines the read-side interface over the mill's document
// store. Each call returns a point-in-time snapshot; writes stay with
// the console UI and are out of scope here.
type StoreClient interface {
	ListDrivers(ctx context.Context) ([]Driver, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListSales(ctx context.Context) ([]SalesRecord, error)
	ListInventory(ctx context.Context) ([]InventoryItem, error)
}
