package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
)

const (
	metersPerMile           = 1609.34
	defaultVisibilityMeters = 10000.0
)

type currentPayload struct {
	Name *string `json:"name"`
	Sys  struct {
		Country *string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Visibility *float64 `json:"visibility"`
	Dt         *int64   `json:"dt"`
}

// NormalizeCurrent turns a raw current-weather response into a Snapshot.
// Times are rendered in loc. A missing required field yields a KindParse
// error.
func NormalizeCurrent(body []byte, loc *time.Location) (Snapshot, error) {
	var p currentPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Snapshot{}, parseError("decode current weather", err)
	}

	required := []struct {
		key    string
		absent bool
	}{
		{"name", p.Name == nil},
		{"sys.country", p.Sys.Country == nil},
		{"main.temp", p.Main.Temp == nil},
		{"main.feels_like", p.Main.FeelsLike == nil},
		{"main.humidity", p.Main.Humidity == nil},
		{"weather", len(p.Weather) == 0},
		{"wind.speed", p.Wind.Speed == nil},
		{"dt", p.Dt == nil},
	}
	for _, f := range required {
		if f.absent {
			return Snapshot{}, parseError("normalize current weather", fmt.Errorf("missing key %s", f.key))
		}
	}

	w := p.Weather[0]
	if w.Description == nil {
		return Snapshot{}, parseError("normalize current weather", fmt.Errorf("missing key weather[0].description"))
	}
	if w.Icon == nil {
		return Snapshot{}, parseError("normalize current weather", fmt.Errorf("missing key weather[0].icon"))
	}

	visibility := defaultVisibilityMeters
	if p.Visibility != nil {
		visibility = *p.Visibility
	}

	return Snapshot{
		City:       *p.Name,
		Country:    *p.Sys.Country,
		Temp:       round(*p.Main.Temp),
		FeelsLike:  round(*p.Main.FeelsLike),
		Condition:  common.TitleCase(*w.Description),
		Icon:       Icon(*w.Icon, true),
		Humidity:   round(*p.Main.Humidity),
		WindSpeed:  round(*p.Wind.Speed),
		Visibility: round(visibility / metersPerMile),
		Updated:    time.Unix(*p.Dt, 0).In(loc).Format("03:04 PM"),
	}, nil
}

func parseError(op string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

// round rounds to the nearest integer, half to even.
func round(f float64) int {
	return int(math.RoundToEven(f))
}
