package usecase

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/ricemill/backend/internal/domain"
)

// Scoring starts from a base of 100; factor penalties subtract from it
// and small bonuses raise the base before the final clamp at zero.
const (
	baseScore = 100.0

	// Capacity fit (~30% weight)
	capacityOverloadPenalty = 30.0 // order physically does not fit
	capacityTightFitPenalty = 5.0  // order uses more than 80% of capacity
	goodUtilizationBonus    = 5.0
	goodUtilizationRatio    = 0.8

	// Vehicle-type fit (~20% weight)
	vehicleTypeFitScore  = 10.0
	vehicleTypePoorScore = 5.0

	// Driver availability (~25% weight)
	maxConcurrentTrips        = 2
	lowAvailabilityThreshold  = 0.5
	highAvailabilityThreshold = 0.8
	lowAvailabilityPenalty    = 25.0
	highAvailabilityBonus     = 10.0

	// Distance capability (~15% weight)
	defaultDistanceKm      = 100.0
	longHaulDistanceKm     = 150.0
	shortHaulDistanceKm    = 50.0
	longHaulPenalty        = 15.0
	underusedDriverPenalty = 5.0 // long-haul-capable driver on a short trip

	// Preference bonus (~10% weight)
	preferredVehicleBonus = 5.0
)

// Recommendation thresholds
const (
	excellentScoreThreshold = 80
	goodScoreThreshold      = 60
	overCapacityNoteRatio   = 0.3
	longTripNoteKm          = 200.0
	highRatedDriverRating   = 4.5
)

// Recommendation strings surfaced to dispatchers. Tests and the console
// match on the leading phrases, so keep them stable.
const (
	recExcellentMatch = "Excellent match - highly recommended for this order"
	recGoodMatch      = "Good match - suitable for this order"
	recFairMatch      = "Fair match - consider other options if available"
	recOverWeight     = "Warning: order weight exceeds vehicle capacity"
	recUnderUsed      = "Vehicle capacity far exceeds order weight - a smaller vehicle may be cheaper"
	recLongTrip       = "Long distance trip - verify driver experience"
	recTopDriver      = "High-rated driver with a strong service record"
)

// longDistanceVehicleType marks drivers comfortable with long hauls.
const longDistanceVehicleType = "Lorry"

// Order statuses that count against a driver's concurrent-trip limit.
var activeOrderStatuses = map[string]bool{
	"in-transit": true,
	"assigned":   true,
}

// tripVehicleTypes maps a trip category to the vehicle-type substrings
// considered a good fit. Unknown trip types fall back to "delivery".
var tripVehicleTypes = map[string][]string{
	"delivery":  {"truck", "lorry", "pickup truck", "van"},
	"pickup":    {"truck", "lorry", "pickup truck"},
	"long-haul": {"truck", "lorry", "tanker"},
	"local":     {"van", "pickup truck", "small lorry"},
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	TopN               int
	EnableDebugLogging bool
}

// MatchingService scores driver/vehicle pairings against transport
// orders and ranks the candidates for dispatch.
type MatchingService struct {
	topN               int
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	topN := config.TopN
	if topN <= 0 {
		topN = 3 // Default number of suggestions
	}

	return &MatchingService{
		topN:               topN,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Score computes the suitability of assigning a driver and vehicle to an
// order, given all in-flight orders for availability counting.
// A missing driver, vehicle, or order short-circuits to a zero result so
// a batch ranking is never aborted by one bad record.
func (s *MatchingService) Score(
	driver *domain.Driver,
	vehicle *domain.Vehicle,
	order *domain.Order,
	allOrders []domain.Order,
) (int, domain.ScoreBreakdown) {
	if driver == nil || vehicle == nil || order == nil {
		return 0, domain.ScoreBreakdown{}
	}

	base := baseScore
	var capacityPenalty, availabilityPenalty, distancePenalty, totalPenalties float64

	// Capacity fit: compare only when both sides are known.
	capKg := ParseCapacityKg(vehicle.Capacity)
	weight := OrderWeightKg(order)
	if capKg > 0 && weight > 0 {
		switch {
		case weight > capKg:
			capacityPenalty = capacityOverloadPenalty
		case weight <= capKg*goodUtilizationRatio:
			base += goodUtilizationBonus
		default:
			capacityPenalty = capacityTightFitPenalty
		}
		totalPenalties += capacityPenalty
	}

	// Vehicle-type fit for the trip category.
	typeScore := vehicleTypePoorScore
	if vehicleTypeAcceptable(order.Type, vehicle.Type) {
		typeScore = vehicleTypeFitScore
	}
	totalPenalties += vehicleTypeFitScore - typeScore

	// Driver availability against the concurrent-trip limit.
	availability := driverAvailability(driver.ID, allOrders)
	if availability < lowAvailabilityThreshold {
		availabilityPenalty = lowAvailabilityPenalty
		totalPenalties += availabilityPenalty
	} else if availability > highAvailabilityThreshold {
		base += highAvailabilityBonus
	}

	// Distance capability.
	distance := order.EstimatedDistance
	if distance == 0 {
		distance = defaultDistanceKm
	}
	longDistanceDriver := driverPrefers(driver, longDistanceVehicleType)
	if distance > longHaulDistanceKm && !longDistanceDriver {
		distancePenalty = longHaulPenalty
		totalPenalties += distancePenalty
	} else if distance < shortHaulDistanceKm && longDistanceDriver {
		totalPenalties += underusedDriverPenalty
	}

	// Preference bonus for a driver's exact preferred vehicle type.
	if driverPrefers(driver, vehicle.Type) {
		base += preferredVehicleBonus
	}

	score := int(math.Round(math.Max(0, base-totalPenalties)))

	if s.enableDebugLogging {
		log.Printf("[MATCH] driver=%s vehicle=%s order=%s | base=%.0f penalties=%.0f score=%d",
			driver.ID, vehicle.ID, order.ID, base, totalPenalties, score)
	}

	return score, domain.ScoreBreakdown{
		Base:                base,
		CapacityPenalty:     capacityPenalty,
		AvailabilityPenalty: availabilityPenalty,
		DistancePenalty:     distancePenalty,
		TotalPenalties:      totalPenalties,
	}
}

// Recommendations generates the human-readable notes shown next to a
// scored match. Order matters: overall verdict first, then capacity,
// distance, and driver notes.
func (s *MatchingService) Recommendations(
	driver *domain.Driver,
	vehicle *domain.Vehicle,
	order *domain.Order,
	score int,
) []string {
	if driver == nil || vehicle == nil || order == nil {
		return nil
	}

	recs := make([]string, 0, 4)

	switch {
	case score >= excellentScoreThreshold:
		recs = append(recs, recExcellentMatch)
	case score >= goodScoreThreshold:
		recs = append(recs, recGoodMatch)
	default:
		recs = append(recs, recFairMatch)
	}

	capKg := ParseCapacityKg(vehicle.Capacity)
	weight := OrderWeightKg(order)
	if weight > capKg {
		recs = append(recs, recOverWeight)
	} else if capKg > 0 && weight < capKg*overCapacityNoteRatio {
		recs = append(recs, recUnderUsed)
	}

	distance := order.EstimatedDistance
	if distance == 0 {
		distance = defaultDistanceKm
	}
	if distance > longTripNoteKm {
		recs = append(recs, recLongTrip)
	}

	if driver.Rating >= highRatedDriverRating {
		recs = append(recs, recTopDriver)
	}

	return recs
}

// TopMatches enumerates every eligible driver/vehicle pair for the
// order, scores each, and returns the topN best, sorted descending by
// score. Fleets are small (tens of records), so the plain double loop
// is fine; ties keep the drivers-outer, vehicles-inner iteration order.
func (s *MatchingService) TopMatches(
	drivers []domain.Driver,
	vehicles []domain.Vehicle,
	order *domain.Order,
	allOrders []domain.Order,
	topN int,
) []domain.MatchResult {
	if topN <= 0 {
		topN = s.topN
	}
	if order == nil {
		return []domain.MatchResult{}
	}

	matches := make([]domain.MatchResult, 0, len(drivers)*len(vehicles))

	for di := range drivers {
		driver := &drivers[di]
		if !driver.IsAvailable || driver.Status != "Active" {
			continue
		}

		for vi := range vehicles {
			vehicle := &vehicles[vi]
			if vehicle.Status != "Active" {
				continue
			}
			// A driver with a fixed vehicle assignment only pairs with it.
			if driver.AssignedVehicleID != "" && driver.AssignedVehicleID != vehicle.ID {
				continue
			}

			score, breakdown := s.Score(driver, vehicle, order, allOrders)
			matches = append(matches, domain.MatchResult{
				Driver:          driver,
				Vehicle:         vehicle,
				Score:           score,
				Breakdown:       breakdown,
				Recommendations: s.Recommendations(driver, vehicle, order, score),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] ranked %d candidate pairs for order %s", len(matches), order.ID)
	}

	return matches
}

// vehicleTypeAcceptable reports whether the vehicle's type is a good fit
// for the trip category. Matching is case-insensitive and by substring,
// so "Pickup Truck" satisfies both "truck" and "pickup truck".
func vehicleTypeAcceptable(tripType, vehicleType string) bool {
	acceptable, ok := tripVehicleTypes[strings.ToLower(tripType)]
	if !ok {
		acceptable = tripVehicleTypes["delivery"]
	}

	vt := strings.ToLower(vehicleType)
	for _, candidate := range acceptable {
		if strings.Contains(vt, candidate) {
			return true
		}
	}
	return false
}

// driverAvailability returns the driver's remaining trip capacity as a
// 0-1 fraction, based on orders currently assigned or in transit.
func driverAvailability(driverID string, allOrders []domain.Order) float64 {
	active := 0
	for _, order := range allOrders {
		if order.AssignedDriver == driverID && activeOrderStatuses[order.Status] {
			active++
		}
	}
	return math.Max(0, float64(maxConcurrentTrips-active)/float64(maxConcurrentTrips))
}

// driverPrefers reports whether the driver's preferred vehicle types
// include the given type exactly.
func driverPrefers(driver *domain.Driver, vehicleType string) bool {
	for _, preferred := range driver.PreferredVehicleTypes {
		if preferred == vehicleType {
			return true
		}
	}
	return false
}
