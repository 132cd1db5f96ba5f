package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ricemill/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var capacityPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(kg|kgs|kilograms?|t|tons?|tonnes?)\s*$`)

const (
	kgPerTon = 1000.0

	// defaultOrderWeightKg is assumed when an order carries no usable
	// quantity at all. A non-zero "average order" default keeps unknown
	// weights from rejecting every vehicle on capacity.
	defaultOrderWeightKg = 500.0
)

// ParseCapacityKg normalizes a heterogeneous capacity value to
// kilograms. Plain numbers are taken as kilograms; strings must carry a
// kg or ton unit ("5000 kg", "2 tons"). Anything unparseable resolves
// to 0, meaning "unknown capacity, don't block".
func ParseCapacityKg(value any) float64 {
	switch v := value.(type) {
	case float64:
		return nonNegative(v)
	case float32:
		return nonNegative(float64(v))
	case int:
		return nonNegative(float64(v))
	case int64:
		return nonNegative(float64(v))
	case string:
		m := capacityPattern.FindStringSubmatch(v)
		if m == nil {
			return 0
		}
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "k") {
			return amount
		}
		return amount * kgPerTon
	default:
		return 0
	}
}

// OrderWeightKg resolves an order's weight in kilograms.
// Preference order: explicit quantity, then the sum of item quantities,
// then the assumed average order weight.
func OrderWeightKg(order *domain.Order) float64 {
	if order == nil {
		return defaultOrderWeightKg
	}

	if order.Quantity != nil {
		q := *order.Quantity
		if !math.IsNaN(q) && !math.IsInf(q, 0) {
			return nonNegative(q)
		}
	}

	if order.Items != nil {
		total := 0.0
		for _, item := range order.Items {
			total += nonNegative(item.Quantity)
		}
		return total
	}

	return defaultOrderWeightKg
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
