package domain

import "time"

// SalesRecord is one historical sale read from the document store.
// Unparseable numerics are resolved to 0 by the store mapper.
type SalesRecord struct {
	Date     string  `json:"date"` // ISO timestamp or date
	Product  string  `json:"product,omitempty"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// InventoryItem is used by the forecaster only as a price index.
type InventoryItem struct {
	Name       string  `json:"name"`
	PricePerKg float64 `json:"pricePerKg"`
}

// Confidence tiers derived from historical sample size.
const (
	ConfidenceLow    = "LOW"
	ConfidenceMedium = "MEDIUM"
	ConfidenceHigh   = "HIGH"
)

// ProductForecast is the projected demand for one product over the
// forecast horizon.
type ProductForecast struct {
	Product              string  `json:"product"`
	Share                float64 `json:"share"` // fraction of total demand
	ProjectedDemand      float64 `json:"projectedDemand"`
	ProjectedDemandValue float64 `json:"projectedDemandValue"`
	Trend                float64 `json:"trend"`
	ConfidencePct        float64 `json:"confidencePct"`
}

// ForecastResult is the output of one demand forecast run.
// ProductForecasts are sorted descending by ProjectedDemandValue.
type ForecastResult struct {
	Timeframe              string            `json:"timeframe"`
	HorizonDays            int               `json:"horizonDays"`
	DataPointsUsed         int               `json:"dataPointsUsed"`
	ConfidenceTier         string            `json:"confidenceTier"`
	Trend                  float64           `json:"trend"` // clamped to [-0.15, 0.25]
	OverallDaily           float64           `json:"overallDaily"`
	OverallProjection      float64           `json:"overallProjection"`
	ProjectedRevenueImpact float64           `json:"projectedRevenueImpact"`
	ProductForecasts       []ProductForecast `json:"productForecasts"`
	GeneratedAt            time.Time         `json:"generatedAt"`
}

// TrendSeries is a chart-ready time series.
type TrendSeries struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// DistributionSeries is a chart-ready categorical distribution.
type DistributionSeries struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
	Colors []string  `json:"colors"`
}

// VisualizationData is the dashboard-facing projection of a forecast.
type VisualizationData struct {
	DemandTrend         TrendSeries        `json:"demandTrend"`
	ProductDistribution DistributionSeries `json:"productDistribution"`
}

// ConfidenceExplanation is a human-readable account of how much to
// trust the most recent forecast.
type ConfidenceExplanation struct {
	Tier    string `json:"tier"`
	Message string `json:"message"`
}
