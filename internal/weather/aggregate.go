package weather

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// MaxForecastDays caps the number of daily summaries.
const MaxForecastDays = 7

const dateLayout = "2006-01-02"

// ForecastEntry is one 3-hour interval from the provider's forecast list.
type ForecastEntry struct {
	Time      time.Time
	Temp      float64
	Condition string
	IconCode  string
}

type forecastPayload struct {
	List *[]struct {
		Dt   *int64 `json:"dt"`
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main *string `json:"main"`
			Icon *string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// ParseForecast decodes the interval list of a forecast response,
// preserving provider order.
func ParseForecast(body []byte) ([]ForecastEntry, error) {
	var p forecastPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, parseError("decode forecast", err)
	}
	if p.List == nil {
		return nil, parseError("parse forecast", fmt.Errorf("missing key list"))
	}

	entries := make([]ForecastEntry, 0, len(*p.List))
	for i, item := range *p.List {
		if item.Dt == nil || item.Main.Temp == nil || len(item.Weather) == 0 ||
			item.Weather[0].Main == nil || item.Weather[0].Icon == nil {
			return nil, parseError("parse forecast", fmt.Errorf("incomplete entry at list[%d]", i))
		}
		entries = append(entries, ForecastEntry{
			Time:      time.Unix(*item.Dt, 0),
			Temp:      *item.Main.Temp,
			Condition: *item.Weather[0].Main,
			IconCode:  *item.Weather[0].Icon,
		})
	}
	return entries, nil
}

type candidate struct {
	hour  int
	entry ForecastEntry
}

// AggregateForecast picks, for each calendar date in loc, the entry whose hour
// is closest to noon and returns at most MaxForecastDays summaries in date
// order. A later entry replaces the current pick only when strictly closer,
// so ties keep the first one seen. The date matching now is labelled "Today".
func AggregateForecast(entries []ForecastEntry, now time.Time, loc *time.Location) []DailyForecast {
	byDate := make(map[string]candidate)

	for _, e := range entries {
		t := e.Time.In(loc)
		date := t.Format(dateLayout)
		hour := t.Hour()

		cur, ok := byDate[date]
		if !ok || noonDistance(hour) < noonDistance(cur.hour) {
			byDate[date] = candidate{hour: hour, entry: e}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > MaxForecastDays {
		dates = dates[:MaxForecastDays]
	}

	today := now.In(loc).Format(dateLayout)

	forecast := make([]DailyForecast, 0, len(dates))
	for _, d := range dates {
		c := byDate[d]

		label := c.entry.Time.In(loc).Format("Mon")
		if d == today {
			label = "Today"
		}

		forecast = append(forecast, DailyForecast{
			Date:      d,
			Hour:      c.hour,
			Day:       label,
			Temp:      round(c.entry.Temp),
			Condition: c.entry.Condition,
			Icon:      Icon(c.entry.IconCode, true),
		})
	}
	return forecast
}

func noonDistance(hour int) int {
	if hour < 12 {
		return 12 - hour
	}
	return hour - 12
}
