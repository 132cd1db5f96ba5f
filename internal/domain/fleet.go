package domain

// Driver represents a mill driver as stored in the document store.
// Records in the store are sparse; missing fields keep their zero value
// and the scoring layer applies documented defaults instead of failing.
type Driver struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Phone                 string   `json:"phone,omitempty"`
	Rating                float64  `json:"rating"` // 0-5
	IsAvailable           bool     `json:"isAvailable"`
	Status                string   `json:"status"` // e.g. "Active"
	AssignedVehicleID     string   `json:"assignedVehicleId,omitempty"`
	PreferredVehicleTypes []string `json:"preferredVehicleTypes,omitempty"`
}

// Vehicle represents a fleet vehicle.
//
// Capacity is deliberately heterogeneous: legacy records hold a plain
// number of kilograms while newer ones hold strings like "5000 kg" or
// "2 tons". Only usecase.ParseCapacityKg interprets it; everything else
// treats it as opaque.
type Vehicle struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // category, e.g. "Truck", "Van"
	Capacity any    `json:"capacity,omitempty"`
	Status   string `json:"status"` // e.g. "Active"
}

// OrderItem is a single line item on an order.
type OrderItem struct {
	Quantity float64 `json:"quantity"`
}

// Order represents a transport order (delivery, pickup, ...).
// Quantity is a pointer so "absent" and "zero" stay distinguishable;
// when absent the item quantities are summed, and when those are absent
// too the weight defaults to an assumed average order.
type Order struct {
	ID                string      `json:"id"`
	Type              string      `json:"type"`   // trip category: delivery/pickup/long-haul/local
	Status            string      `json:"status"` // e.g. "pending", "assigned", "in-transit"
	Quantity          *float64    `json:"quantity,omitempty"`
	Items             []OrderItem `json:"items,omitempty"`
	EstimatedDistance float64     `json:"estimatedDistance,omitempty"` // km
	AssignedDriver    string      `json:"assignedDriver,omitempty"`
}
