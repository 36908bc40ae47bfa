package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is the weather gateway: it owns the provider integrations and
// translates every failure into an *Error.
type Service struct {
	provider Provider
	geocoder Geocoder
	loc      *time.Location
	now      func() time.Time
	log      *zap.SugaredLogger
}

type Option func(*Service)

// WithLocation sets the time zone used for clock strings and calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithClock overrides the wall clock used to decide which date is "Today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a new Service.
func NewService(provider Provider, geocoder Geocoder, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		geocoder: geocoder,
		loc:      time.Local,
		now:      time.Now,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchWeather loads current conditions and the daily forecast for loc. The
// two provider calls run concurrently. Only the current-conditions call is
// fatal; a failed forecast leaves Forecast empty.
func (s *Service) FetchWeather(ctx context.Context, loc Location) (Report, error) {
	const op = "fetch weather"

	s.log.Infow("weather requested", "city", loc.City, "country", loc.Country)

	var (
		current  Snapshot
		forecast []DailyForecast
		query    = loc.Query()
		now      = s.now()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(op, func() error {
		snap, err := s.current(gctx, op, query)
		if err != nil {
			return err
		}
		current = snap
		return nil
	}))
	g.Go(func() error {
		forecast = s.forecast(gctx, query, now)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Report{Forecast: []DailyForecast{}}, err
	}

	s.log.Infow("weather loaded", "city", current.City, "forecast_days", len(forecast))
	return Report{Weather: &current, Forecast: forecast}, nil
}

// Page always returns a renderable report: on failure Weather is nil and
// Error carries the user-facing message.
func (s *Service) Page(ctx context.Context, loc Location) Report {
	rep, err := s.FetchWeather(ctx, loc)
	if err != nil {
		s.log.Warnw("rendering dashboard without weather", "city", loc.City, "kind", KindOf(err).String(), "error", err)
		return Report{Forecast: []DailyForecast{}, Error: Message(err)}
	}
	return rep
}

// Current loads current conditions for a bare city query.
func (s *Service) Current(ctx context.Context, city string) (snap Snapshot, err error) {
	const op = "current weather"

	city = strings.TrimSpace(city)
	if city == "" {
		return Snapshot{}, &Error{Kind: KindValidation, Op: op, Msg: "City parameter is required"}
	}

	s.log.Infow("current weather requested", "city", city)

	err = guard(op, func() error {
		snap, err = s.current(ctx, op, city)
		return err
	})()
	return snap, err
}

// SearchLocations resolves query to at most SearchLimit places. An empty
// query fails before any outbound call.
func (s *Service) SearchLocations(ctx context.Context, query string) ([]LocationResult, error) {
	const op = "search locations"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &Error{Kind: KindValidation, Op: op, Msg: "Search query is required"}
	}

	s.log.Infow("location search requested", "query", query)

	var results []LocationResult
	err := guard(op, func() error {
		body, err := s.geocoder.Direct(ctx, query, SearchLimit)
		if err != nil {
			s.log.Errorw("upstream failure", "call", "geocode", "error", err)
			return classify(op, err)
		}

		results, err = parseLocations(body)
		if err != nil {
			s.log.Errorw("geocoding response rejected", "error", err)
		}
		return err
	})()
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Msg = "Unable to search locations"
		}
		return nil, err
	}
	return results, nil
}

func (s *Service) current(ctx context.Context, op, query string) (Snapshot, error) {
	s.log.Debugw("upstream call", "provider", s.provider.Name(), "call", "current", "query", query)

	body, err := s.provider.Current(ctx, query)
	if err != nil {
		s.log.Errorw("upstream failure", "provider", s.provider.Name(), "call", "current", "error", err)
		return Snapshot{}, classify(op, err)
	}

	snap, err := NormalizeCurrent(body, s.loc)
	if err != nil {
		s.log.Errorw("current weather response rejected", "provider", s.provider.Name(), "error", err)
		return Snapshot{}, err
	}
	return snap, nil
}

// forecast never fails: any error or panic degrades to an empty list.
func (s *Service) forecast(ctx context.Context, query string, now time.Time) (days []DailyForecast) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warnw("forecast unavailable", "provider", s.provider.Name(), "panic", r)
			days = []DailyForecast{}
		}
	}()

	s.log.Debugw("upstream call", "provider", s.provider.Name(), "call", "forecast", "query", query)

	body, err := s.provider.Forecast(ctx, query, ForecastIntervals)
	if err != nil {
		s.log.Warnw("forecast unavailable", "provider", s.provider.Name(), "error", err)
		return []DailyForecast{}
	}

	entries, err := ParseForecast(body)
	if err != nil {
		s.log.Warnw("forecast response rejected", "provider", s.provider.Name(), "error", err)
		return []DailyForecast{}
	}
	return AggregateForecast(entries, now, s.loc)
}

// guard converts a panic in fn into a KindUnexpected error.
func guard(op string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &Error{Kind: KindUnexpected, Op: op, Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		return fn()
	}
}

type locationPayload struct {
	Name    *string  `json:"name"`
	State   string   `json:"state"`
	Country *string  `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

func parseLocations(body []byte) ([]LocationResult, error) {
	var raw []locationPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, parseError("decode locations", err)
	}

	results := make([]LocationResult, 0, len(raw))
	for i, l := range raw {
		if l.Name == nil || l.Country == nil || l.Lat == nil || l.Lon == nil {
			return nil, parseError("parse locations", fmt.Errorf("incomplete location at index %d", i))
		}
		results = append(results, LocationResult{
			Name:        *l.Name,
			State:       l.State,
			Country:     *l.Country,
			Lat:         *l.Lat,
			Lon:         *l.Lon,
			DisplayName: DisplayName(*l.Name, l.State, *l.Country),
		})
	}
	return results, nil
}

// DisplayName joins the parts with ", ", collapsing the empty segment left
// by a missing state.
func DisplayName(name, state, country string) string {
	return strings.ReplaceAll(fmt.Sprintf("%s, %s, %s", name, state, country), ", ,", ",")
}
