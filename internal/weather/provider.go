package weather

import (
	"context"
)

// ForecastIntervals is the number of 3-hour intervals requested: 5 days x 8.
const ForecastIntervals = 40

// SearchLimit is the maximum number of geocoding matches requested.
const SearchLimit = 5

// Provider fetches raw weather responses. Errors for transport failures,
// timeouts and unaccepted statuses must wrap ErrUpstream.
type Provider interface {
	Name() string
	Current(ctx context.Context, query string) ([]byte, error)
	Forecast(ctx context.Context, query string, count int) ([]byte, error)
}

// Geocoder resolves free-text place names. Errors follow the Provider rules.
type Geocoder interface {
	Direct(ctx context.Context, query string, limit int) ([]byte, error)
}
