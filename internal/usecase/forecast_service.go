package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ricemill/backend/internal/domain"
)

// Forecast horizon per timeframe, in days.
var timeframeHorizons = map[string]int{
	"week":    7,
	"month":   30,
	"quarter": 90,
	"year":    365,
}

const defaultHorizonDays = 30 // unrecognized timeframes behave like "month"

// Trend is clamped so a short lopsided history cannot extrapolate into
// runaway projections.
const (
	trendClampMin = -0.15
	trendClampMax = 0.25
)

// Confidence tiers are a function of sample size alone.
const (
	highConfidenceSamples   = 90
	mediumConfidenceSamples = 30

	confidencePctHigh   = 90.0
	confidencePctMedium = 75.0
	confidencePctLow    = 60.0
)

const (
	unknownProduct    = "Unknown"
	defaultPricePerKg = 100.0
)

// chartPalette cycles across product-distribution buckets.
var chartPalette = [...]string{"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#06B6D4"}

// ForecastConfig holds configuration for the forecast service
type ForecastConfig struct {
	CacheTTL time.Duration
}

// ForecastService projects rice demand from historical sales. Results
// are cached per timeframe, and the most recent result is memoized so
// visualization and confidence lookups never re-fetch or recompute.
type ForecastService struct {
	store    domain.StoreClient
	cache    domain.CacheRepository
	cacheTTL time.Duration

	mu   sync.Mutex
	last *domain.ForecastResult
}

// NewForecastService creates a new forecast service with dependencies
func NewForecastService(
	store domain.StoreClient,
	cache domain.CacheRepository,
	config ForecastConfig,
) *ForecastService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &ForecastService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ForecastDemand produces a demand forecast for the given timeframe.
// Flow: check cache -> fetch sales/inventory -> compute -> cache -> return
func (s *ForecastService) ForecastDemand(ctx context.Context, timeframe string) (*domain.ForecastResult, error) {
	cacheKey := s.cacheKey(timeframe)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		s.setLast(cached)
		return cached, nil
	}

	return s.Refresh(ctx, timeframe)
}

// Refresh recomputes the forecast from the store, bypassing any cached
// result, and overwrites both the cache and the memo. The cron
// scheduler uses this to keep dashboards warm.
func (s *ForecastService) Refresh(ctx context.Context, timeframe string) (*domain.ForecastResult, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreAPIFailure, err)
	}
	inventory, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreAPIFailure, err)
	}

	result := BuildForecast(sales, inventory, timeframe)

	if err := s.cache.Set(ctx, s.cacheKey(timeframe), result, s.cacheTTL); err != nil {
		log.Printf("[FORECAST] cache set failed: %v", err)
	}
	s.setLast(result)

	return result, nil
}

// BuildForecast is the pure computation over an in-memory snapshot.
// Empty history is a valid input: it yields a LOW-confidence result with
// all projections at zero, not an error.
func BuildForecast(sales []domain.SalesRecord, inventory []domain.InventoryItem, timeframe string) *domain.ForecastResult {
	horizon, ok := timeframeHorizons[strings.ToLower(strings.TrimSpace(timeframe))]
	if !ok {
		horizon = defaultHorizonDays
	}

	daily := dailyTotals(sales)
	movingAvg := weightedMovingAverage(daily)
	trend := clampTrend(trendEstimate(daily))

	overallDaily := math.Max(movingAvg*(1+trend), 0)
	overallProjection := overallDaily * float64(horizon)

	tier := confidenceTier(len(sales))
	pct := confidencePct(tier)

	products := productForecasts(sales, inventory, overallProjection, trend, pct)

	revenue := 0.0
	for _, p := range products {
		revenue += p.ProjectedDemandValue
	}

	return &domain.ForecastResult{
		Timeframe:              timeframe,
		HorizonDays:            horizon,
		DataPointsUsed:         len(sales),
		ConfidenceTier:         tier,
		Trend:                  trend,
		OverallDaily:           overallDaily,
		OverallProjection:      overallProjection,
		ProjectedRevenueImpact: revenue,
		ProductForecasts:       products,
		GeneratedAt:            time.Now(),
	}
}

// VisualizationData derives chart-ready series from the most recently
// computed forecast.
func (s *ForecastService) VisualizationData() (*domain.VisualizationData, error) {
	last := s.getLast()
	if last == nil {
		return nil, domain.ErrNoForecast
	}
	return BuildVisualizationData(last), nil
}

// BuildVisualizationData turns a forecast into chart series. The demand
// trend line ramps linearly from OverallDaily at day 0 to
// OverallDaily*(1+Trend) at the final horizon day. That is a display
// simplification and intentionally not the same math the projection
// itself uses; keep the two models separate.
func BuildVisualizationData(f *domain.ForecastResult) *domain.VisualizationData {
	viz := &domain.VisualizationData{}

	if f.HorizonDays > 0 {
		labels := make([]string, 0, f.HorizonDays+1)
		series := make([]float64, 0, f.HorizonDays+1)
		for day := 0; day <= f.HorizonDays; day++ {
			progress := float64(day) / float64(f.HorizonDays)
			labels = append(labels, fmt.Sprintf("Day %d", day))
			series = append(series, f.OverallDaily*(1+f.Trend*progress))
		}
		viz.DemandTrend = domain.TrendSeries{Labels: labels, Series: series}
	}

	dist := domain.DistributionSeries{
		Labels: make([]string, 0, len(f.ProductForecasts)),
		Series: make([]float64, 0, len(f.ProductForecasts)),
		Colors: make([]string, 0, len(f.ProductForecasts)),
	}
	for i, p := range f.ProductForecasts {
		dist.Labels = append(dist.Labels, p.Product)
		dist.Series = append(dist.Series, p.ProjectedDemand)
		dist.Colors = append(dist.Colors, chartPalette[i%len(chartPalette)])
	}
	viz.ProductDistribution = dist

	return viz
}

// ConfidenceExplanation explains how much to trust the most recently
// computed forecast.
func (s *ForecastService) ConfidenceExplanation() (*domain.ConfidenceExplanation, error) {
	last := s.getLast()
	if last == nil {
		return nil, domain.ErrNoForecast
	}

	var message string
	switch last.ConfidenceTier {
	case domain.ConfidenceHigh:
		message = fmt.Sprintf("High confidence: projection is based on %d historical sales records.", last.DataPointsUsed)
	case domain.ConfidenceMedium:
		message = fmt.Sprintf("Moderate confidence: %d historical sales records; treat projections as indicative.", last.DataPointsUsed)
	default:
		message = fmt.Sprintf("Low confidence: only %d historical sales records; projections are rough estimates.", last.DataPointsUsed)
	}

	return &domain.ConfidenceExplanation{
		Tier:    last.ConfidenceTier,
		Message: message,
	}, nil
}

// Limitations lists the standing caveats of the forecasting model.
func Limitations() []string {
	return []string{
		"Predictions assume historical demand patterns continue",
		"External shocks such as weather, market or policy changes are not modeled",
		"Niche products may be underrepresented in the price mapping",
	}
}

// dailyTotals groups sales by calendar date, summing quantity with a
// fallback to amount, and returns the totals ordered oldest first.
func dailyTotals(sales []domain.SalesRecord) []float64 {
	byDate := make(map[string]float64)
	for _, sale := range sales {
		date := sale.Date
		if len(date) > 10 {
			date = date[:10] // ISO date portion of a timestamp
		}
		value := sale.Quantity
		if value == 0 {
			value = sale.Amount
		}
		byDate[date] += value
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	totals := make([]float64, len(dates))
	for i, date := range dates {
		totals[i] = byDate[date]
	}
	return totals
}

// weightedMovingAverage averages the daily totals with recency
// weighting: index i (oldest first) carries weight 1 + i/n.
func weightedMovingAverage(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for i, v := range values {
		w := 1 + float64(i)/float64(n)
		weightedSum += v * w
		weightTotal += w
	}
	return weightedSum / weightTotal
}

// trendEstimate fits an ordinary-least-squares slope to the daily totals
// against their index and normalizes it by the series mean, yielding a
// relative per-day growth rate.
func trendEstimate(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	if mean == 0 {
		return 0
	}

	xMean := float64(n-1) / 2
	num := 0.0
	den := 0.0
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - mean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}

	return (num / den) / mean
}

func clampTrend(trend float64) float64 {
	return math.Max(trendClampMin, math.Min(trendClampMax, trend))
}

// confidenceTier derives the coarse trust label from sample size alone.
func confidenceTier(dataPoints int) string {
	switch {
	case dataPoints >= highConfidenceSamples:
		return domain.ConfidenceHigh
	case dataPoints >= mediumConfidenceSamples:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func confidencePct(tier string) float64 {
	switch tier {
	case domain.ConfidenceHigh:
		return confidencePctHigh
	case domain.ConfidenceMedium:
		return confidencePctMedium
	default:
		return confidencePctLow
	}
}

// productForecasts splits the overall projection across products by
// their historical share of unit sales, priced from the inventory index.
// The result is sorted descending by projected value.
func productForecasts(
	sales []domain.SalesRecord,
	inventory []domain.InventoryItem,
	overallProjection float64,
	trend float64,
	confidencePct float64,
) []domain.ProductForecast {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, sale := range sales {
		product := sale.Product
		if product == "" {
			product = unknownProduct
		}
		if _, seen := totals[product]; !seen {
			order = append(order, product)
		}
		totals[product] += sale.Quantity
	}

	totalQty := 0.0
	for _, qty := range totals {
		totalQty += qty
	}
	denominator := math.Max(totalQty, 1)

	forecasts := make([]domain.ProductForecast, 0, len(order))
	for _, product := range order {
		share := totals[product] / denominator
		demand := overallProjection * share
		price := priceFor(inventory, product)
		forecasts = append(forecasts, domain.ProductForecast{
			Product:              product,
			Share:                share,
			ProjectedDemand:      demand,
			ProjectedDemandValue: demand * price,
			Trend:                trend,
			ConfidencePct:        confidencePct,
		})
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].ProjectedDemandValue > forecasts[j].ProjectedDemandValue
	})

	return forecasts
}

// priceFor looks up a product's price from the first matching inventory
// record. No match, or a zero price, falls back to the default.
func priceFor(inventory []domain.InventoryItem, product string) float64 {
	for _, item := range inventory {
		if strings.EqualFold(item.Name, product) {
			if item.PricePerKg != 0 {
				return item.PricePerKg
			}
			return defaultPricePerKg
		}
	}
	return defaultPricePerKg
}

func (s *ForecastService) cacheKey(timeframe string) string {
	return "forecast:" + strings.ToLower(strings.TrimSpace(timeframe))
}

func (s *ForecastService) setLast(result *domain.ForecastResult) {
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
}

func (s *ForecastService) getLast() *domain.ForecastResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// getFromCache retrieves a forecast from cache, rehydrating from the
// generic map shape JSON-backed caches return.
func (s *ForecastService) getFromCache(ctx context.Context, key string) (*domain.ForecastResult, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if result, ok := value.(*domain.ForecastResult); ok {
		return result, nil
	}
	if data, ok := value.(map[string]interface{}); ok {
		return mapToForecastResult(data), nil
	}
	return nil, domain.ErrCacheMiss
}

// mapToForecastResult converts a map (from JSON cache) to a ForecastResult
func mapToForecastResult(data map[string]interface{}) *domain.ForecastResult {
	result := &domain.ForecastResult{}

	if v, ok := data["timeframe"].(string); ok {
		result.Timeframe = v
	}
	if v, ok := data["horizonDays"].(float64); ok {
		result.HorizonDays = int(v)
	}
	if v, ok := data["dataPointsUsed"].(float64); ok {
		result.DataPointsUsed = int(v)
	}
	if v, ok := data["confidenceTier"].(string); ok {
		result.ConfidenceTier = v
	}
	if v, ok := data["trend"].(float64); ok {
		result.Trend = v
	}
	if v, ok := data["overallDaily"].(float64); ok {
		result.OverallDaily = v
	}
	if v, ok := data["overallProjection"].(float64); ok {
		result.OverallProjection = v
	}
	if v, ok := data["projectedRevenueImpact"].(float64); ok {
		result.ProjectedRevenueImpact = v
	}
	if v, ok := data["generatedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			result.GeneratedAt = t
		}
	}

	if raw, ok := data["productForecasts"].([]interface{}); ok {
		for _, entry := range raw {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			pf := domain.ProductForecast{}
			if v, ok := m["product"].(string); ok {
				pf.Product = v
			}
			if v, ok := m["share"].(float64); ok {
				pf.Share = v
			}
			if v, ok := m["projectedDemand"].(float64); ok {
				pf.ProjectedDemand = v
			}
			if v, ok := m["projectedDemandValue"].(float64); ok {
				pf.ProjectedDemandValue = v
			}
			if v, ok := m["trend"].(float64); ok {
				pf.Trend = v
			}
			if v, ok := m["confidencePct"].(float64); ok {
				pf.ConfidencePct = v
			}
			result.ProductForecasts = append(result.ProductForecasts, pf)
		}
	}

	return result
}
