package store

import (
	"sort"
	"strconv"

	"github.com/ricemill/backend/internal/domain"
)

// The store is schemaless and records are written by several console
// pages, so field types drift: numbers arrive as strings, booleans as
// "true", arrays as keyed objects. The mappers below are the single
// normalization boundary; past them, the domain structs hold clean
// values and documented defaults stand in for anything missing.

func mapDriver(key string, raw map[string]any) domain.Driver {
	driver := domain.Driver{
		ID:                    toString(raw["id"]),
		Name:                  toString(raw["name"]),
		Phone:                 toString(raw["phone"]),
		Rating:                toFloat(raw["rating"]),
		IsAvailable:           toBool(raw["isAvailable"]),
		Status:                toString(raw["status"]),
		AssignedVehicleID:     toString(raw["assignedVehicleId"]),
		PreferredVehicleTypes: toStringSlice(raw["preferredVehicleTypes"]),
	}
	if driver.ID == "" {
		driver.ID = key
	}
	return driver
}

func mapVehicle(key string, raw map[string]any) domain.Vehicle {
	vehicle := domain.Vehicle{
		ID:       toString(raw["id"]),
		Type:     toString(raw["type"]),
		Capacity: raw["capacity"], // heterogeneous on purpose; parsed downstream
		Status:   toString(raw["status"]),
	}
	if vehicle.ID == "" {
		vehicle.ID = key
	}
	return vehicle
}

func mapOrder(key string, raw map[string]any) domain.Order {
	order := domain.Order{
		ID:                toString(raw["id"]),
		Type:              toString(raw["type"]),
		Status:            toString(raw["status"]),
		Quantity:          toFloatPtr(raw["quantity"]),
		Items:             toOrderItems(raw["items"]),
		EstimatedDistance: toFloat(raw["estimatedDistance"]),
		AssignedDriver:    toString(raw["assignedDriver"]),
	}
	if order.ID == "" {
		order.ID = key
	}
	return order
}

func mapSalesRecord(raw map[string]any) domain.SalesRecord {
	return domain.SalesRecord{
		Date:     toString(raw["date"]),
		Product:  toString(raw["product"]),
		Quantity: toFloat(raw["quantity"]),
		Amount:   toFloat(raw["amount"]),
	}
}

func mapInventoryItem(raw map[string]any) domain.InventoryItem {
	name := toString(raw["name"])
	if name == "" {
		name = toString(raw["product"])
	}
	price := toFloat(raw["pricePerKg"])
	if price == 0 {
		price = toFloat(raw["price"])
	}
	return domain.InventoryItem{
		Name:       name,
		PricePerKg: price,
	}
}

// toOrderItems accepts both JSON arrays and the keyed-object shape the
// store uses for lists. A missing items field stays nil so the weight
// fallback chain can tell "no items" from "empty items".
func toOrderItems(v any) []domain.OrderItem {
	switch items := v.(type) {
	case []any:
		result := make([]domain.OrderItem, 0, len(items))
		for _, entry := range items {
			result = append(result, toOrderItem(entry))
		}
		return result
	case map[string]any:
		keys := make([]string, 0, len(items))
		for key := range items {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		result := make([]domain.OrderItem, 0, len(items))
		for _, key := range keys {
			result = append(result, toOrderItem(items[key]))
		}
		return result
	default:
		return nil
	}
}

func toOrderItem(v any) domain.OrderItem {
	if m, ok := v.(map[string]any); ok {
		return domain.OrderItem{Quantity: toFloat(m["quantity"])}
	}
	return domain.OrderItem{Quantity: toFloat(v)}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return 0
}

// toFloatPtr distinguishes absent/unparseable from an explicit zero.
func toFloatPtr(v any) *float64 {
	switch value := v.(type) {
	case float64:
		return &value
	case int:
		f := float64(value)
		return &f
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return &f
		}
	}
	return nil
}

func toBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value == "true"
	case float64:
		return value != 0
	}
	return false
}

func toStringSlice(v any) []string {
	switch values := v.(type) {
	case []any:
		result := make([]string, 0, len(values))
		for _, entry := range values {
			if s, ok := entry.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case map[string]any:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		result := make([]string, 0, len(values))
		for _, key := range keys {
			if s, ok := values[key].(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

func sortedKeys(node map[string]map[string]any) []string {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
