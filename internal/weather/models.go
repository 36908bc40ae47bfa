package weather

// Snapshot is the normalized current-conditions view of one place.
// It is built fresh for every request and never persisted.
type Snapshot struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	Temp       int    `json:"temp"`
	FeelsLike  int    `json:"feels_like"`
	Condition  string `json:"condition"`
	Icon       string `json:"icon"`
	Humidity   int    `json:"humidity"`
	WindSpeed  int    `json:"wind_speed"`
	Visibility int    `json:"visibility"` // miles
	Updated    string `json:"updated"`    // local 12-hour clock, e.g. "03:04 PM"
}

// DailyForecast is the single reading chosen to represent a calendar date.
type DailyForecast struct {
	Date      string `json:"date"` // 2006-01-02 in the configured location
	Hour      int    `json:"hour"`
	Day       string `json:"day"` // "Today" or a 3-letter weekday
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
}

// LocationResult is one geocoding match shaped for display.
type LocationResult struct {
	Name        string  `json:"name"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Report is the renderable dashboard context. Weather is nil when the
// current conditions could not be loaded, in which case Error is set.
type Report struct {
	Weather  *Snapshot       `json:"weather"`
	Forecast []DailyForecast `json:"forecast"`
	Error    string          `json:"error"`
}

// Location identifies the place a dashboard is rendered for.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Query returns the "city,country" form the provider expects.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}
