package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Provider and weather.Geocoder for
// OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	log     *zap.SugaredLogger

	// One breaker per endpoint so an outage on one cannot reject the others.
	currentCB  *gobreaker.CircuitBreaker
	forecastCB *gobreaker.CircuitBreaker
	geocodeCB  *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider using client for transport.
// Each call is bounded by timeout; baseURL defaults to the public API.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, timeout time.Duration, log *zap.SugaredLogger) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Timeout: timeout,
		},
		log:        log,
		currentCB:  newBreaker("openweather-current", log),
		forecastCB: newBreaker("openweather-forecast", log),
		geocodeCB:  newBreaker("openweather-geocode", log),
	}
}

func newBreaker(name string, log *zap.SugaredLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current fetches /data/2.5/weather for a "city[,country]" query.
func (p *OpenWeatherProvider) Current(ctx context.Context, query string) ([]byte, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("units", "imperial")
	return p.get(ctx, p.currentCB, "/data/2.5/weather", values, exactlyOK)
}

// Forecast fetches count 3-hour intervals from /data/2.5/forecast.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, query string, count int) ([]byte, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("units", "imperial")
	values.Set("cnt", strconv.Itoa(count))
	return p.get(ctx, p.forecastCB, "/data/2.5/forecast", values, exactlyOK)
}

// Direct resolves a place name with /geo/1.0/direct.
func (p *OpenWeatherProvider) Direct(ctx context.Context, query string, limit int) ([]byte, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	return p.get(ctx, p.geocodeCB, "/geo/1.0/direct", values, any2xx)
}

func (p *OpenWeatherProvider) get(ctx context.Context, cb *gobreaker.CircuitBreaker, path string, values url.Values, accept acceptFunc) ([]byte, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrUpstream)
	}
	values.Set("appid", p.apiKey)

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	p.log.Debugw("openweather request", "path", path, "q", values.Get("q"))

	body, err := fetch(ctx, p.httpCfg, cb, accept, buildRequest)
	if err != nil {
		p.log.Warnw("openweather request failed", "path", path, "error", err)
		return nil, err
	}
	return body, nil
}
