package domain

import "errors"

var (
	// ErrOrderNotFound is returned when an order id has no record in the store
	ErrOrderNotFound = errors.New("order not found")

	// ErrDriverNotFound is returned when a driver id has no record in the store
	ErrDriverNotFound = errors.New("driver not found")

	// ErrVehicleNotFound is returned when a vehicle id has no record in the store
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrNoForecast is returned when visualization or confidence data is
	// requested before any forecast has been computed
	ErrNoForecast = errors.New("no forecast computed yet")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreAPIFailure is returned when a document store request fails
	ErrStoreAPIFailure = errors.New("document store request failed")
)
