package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ricemill/backend/internal/domain"
	"github.com/ricemill/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store            domain.StoreClient
	matching         *usecase.MatchingService
	forecast         *usecase.ForecastService
	defaultTimeframe string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	store domain.StoreClient,
	matching *usecase.MatchingService,
	forecast *usecase.ForecastService,
	defaultTimeframe string,
) *Handler {
	if defaultTimeframe == "" {
		defaultTimeframe = "month"
	}
	return &Handler{
		store:            store,
		matching:         matching,
		forecast:         forecast,
		defaultTimeframe: defaultTimeframe,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ricemill-backend",
		"version": "1.0.0",
	})
}

// RankMatchesRequest asks for the best driver/vehicle pairings for an order
type RankMatchesRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	TopN    int    `json:"topN,omitempty"`
}

// RankMatches returns the top driver/vehicle pairings for an order
func (h *Handler) RankMatches(c *gin.Context) {
	var req RankMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	ctx := c.Request.Context()

	order, err := h.store.GetOrder(ctx, req.OrderID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	drivers, err := h.store.ListDrivers(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	vehicles, err := h.store.ListVehicles(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	allOrders, err := h.store.ListOrders(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	matches := h.matching.TopMatches(drivers, vehicles, order, allOrders, req.TopN)

	c.JSON(http.StatusOK, gin.H{
		"orderId": order.ID,
		"count":   len(matches),
		"matches": matches,
	})
}

// ScoreMatchRequest asks for the score of one explicit pairing
type ScoreMatchRequest struct {
	DriverID  string `json:"driverId" binding:"required"`
	VehicleID string `json:"vehicleId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
}

// ScoreMatch scores a single driver/vehicle pairing against an order
func (h *Handler) ScoreMatch(c *gin.Context) {
	var req ScoreMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driverId, vehicleId and orderId are required"})
		return
	}

	ctx := c.Request.Context()

	order, err := h.store.GetOrder(ctx, req.OrderID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	drivers, err := h.store.ListDrivers(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	driver := findDriver(drivers, req.DriverID)
	if driver == nil {
		respondStoreError(c, domain.ErrDriverNotFound)
		return
	}

	vehicles, err := h.store.ListVehicles(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	vehicle := findVehicle(vehicles, req.VehicleID)
	if vehicle == nil {
		respondStoreError(c, domain.ErrVehicleNotFound)
		return
	}

	allOrders, err := h.store.ListOrders(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	score, breakdown := h.matching.Score(driver, vehicle, order, allOrders)

	c.JSON(http.StatusOK, gin.H{
		"score":           score,
		"breakdown":       breakdown,
		"recommendations": h.matching.Recommendations(driver, vehicle, order, score),
	})
}

// GetForecast computes (or serves the cached) demand forecast
func (h *Handler) GetForecast(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", h.defaultTimeframe)

	result, err := h.forecast.ForecastDemand(c.Request.Context(), timeframe)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetForecastVisualization serves chart series for the latest forecast
func (h *Handler) GetForecastVisualization(c *gin.Context) {
	viz, err := h.forecast.VisualizationData()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, viz)
}

// GetForecastConfidence explains the latest forecast's confidence tier
func (h *Handler) GetForecastConfidence(c *gin.Context) {
	explanation, err := h.forecast.ConfidenceExplanation()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, explanation)
}

// GetForecastLimitations lists the standing forecast caveats
func (h *Handler) GetForecastLimitations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"limitations": usecase.Limitations()})
}

// respondStoreError maps domain sentinel errors to HTTP statuses.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrDriverNotFound),
		errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrNoForecast):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "document store unavailable"})
	}
}

func findDriver(drivers []domain.Driver, id string) *domain.Driver {
	for i := range drivers {
		if drivers[i].ID == id {
			return &drivers[i]
		}
	}
	return nil
}

func findVehicle(vehicles []domain.Vehicle, id string) *domain.Vehicle {
	for i := range vehicles {
		if vehicles[i].ID == id {
			return &vehicles[i]
		}
	}
	return nil
}
