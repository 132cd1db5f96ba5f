package domain

// ScoreBreakdown itemizes the subtractions from a match's base score so
// the console can explain why a pairing ranked where it did.
// CapacityPenalty is at most 30, AvailabilityPenalty is 25 or 0, and
// DistancePenalty is 15 or 0; minor penalties (vehicle-type fit, an
// underused long-haul driver) only show up in TotalPenalties.
type ScoreBreakdown struct {
	Base                float64 `json:"base"`
	CapacityPenalty     float64 `json:"capacityPenalty"`
	AvailabilityPenalty float64 `json:"availabilityPenalty"`
	DistancePenalty     float64 `json:"distancePenalty"`
	TotalPenalties      float64 `json:"totalPenalties"`
}

// MatchResult is the scored pairing of a driver and a vehicle for one
// order. It is recomputed on every ranking request and never persisted.
type MatchResult struct {
	Driver          *Driver        `json:"driver"`
	Vehicle         *Vehicle       `json:"vehicle"`
	Score           int            `json:"score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Recommendations []string       `json:"recommendations"`
}
