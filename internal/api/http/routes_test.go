package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/auth"
	"github.com/i474232898/weather-dashboard/internal/notes"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const currentBody = `{
	"name": "Temecula", "sys": {"country": "US"},
	"main": {"temp": 80.2, "feels_like": 79.5, "humidity": 20},
	"weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}],
	"wind": {"speed": 3.1}, "dt": 1700000000
}`

type stubProvider struct {
	currentErr  error
	forecastErr error
	geoCalls    int
	lastQuery   string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Current(_ context.Context, query string) ([]byte, error) {
	s.lastQuery = query
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return []byte(currentBody), nil
}

func (s *stubProvider) Forecast(_ context.Context, _ string, _ int) ([]byte, error) {
	if s.forecastErr != nil {
		return nil, s.forecastErr
	}
	return []byte(`{"list": [{"dt": 1700038800, "main": {"temp": 66.6}, "weather": [{"main": "Rain", "icon": "10d"}]}]}`), nil
}

func (s *stubProvider) Direct(_ context.Context, _ string, _ int) ([]byte, error) {
	s.geoCalls++
	return []byte(`[{"name": "Paris", "country": "FR", "lat": 48.85, "lon": 2.35}]`), nil
}

func newTestApp(t *testing.T, p *stubProvider) *fiber.App {
	t.Helper()

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	app := NewApp(nil)
	RegisterRoutes(app, Services{
		Weather:         weather.NewService(p, p, weather.WithLocation(time.UTC)),
		Notes:           notes.NewStore(db),
		Auth:            auth.NewService(db, "test-secret", time.Hour, store.NewMemoryRevocations(), nil),
		DefaultLocation: weather.Location{City: "Temecula", Country: "US"},
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body, token string) (int, map[string]interface{}) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("invalid JSON %q: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func TestDashboardDefaultsLocation(t *testing.T) {
	p := &stubProvider{}
	app := newTestApp(t, p)

	status, body := do(t, app, http.MethodGet, "/weather", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if p.lastQuery != "Temecula,US" {
		t.Fatalf("expected default query Temecula,US, got %q", p.lastQuery)
	}
	w, ok := body["weather"].(map[string]interface{})
	if !ok || w["temp"].(float64) != 80 || w["condition"] != "Clear Sky" {
		t.Fatalf("unexpected weather %v", body["weather"])
	}
	if f, ok := body["forecast"].([]interface{}); !ok || len(f) != 1 {
		t.Fatalf("unexpected forecast %v", body["forecast"])
	}
}

func TestDashboardDegradesOnUpstreamFailure(t *testing.T) {
	p := &stubProvider{currentErr: fmt.Errorf("%w: status 401", weather.ErrUpstream)}
	app := newTestApp(t, p)

	status, body := do(t, app, http.MethodGet, "/?city=Oslo&country=NO", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["weather"] != nil {
		t.Fatalf("expected null weather, got %v", body["weather"])
	}
	if body["error"] != "Unable to fetch weather data. Please check your internet connection." {
		t.Fatalf("unexpected error %v", body["error"])
	}
	if p.lastQuery != "Oslo,NO" {
		t.Fatalf("unexpected query %q", p.lastQuery)
	}
}

func TestCurrentWeatherAPI(t *testing.T) {
	app := newTestApp(t, &stubProvider{})

	status, body := do(t, app, http.MethodGet, "/api/weather", "", "")
	if status != http.StatusBadRequest || body["error"] != "City parameter is required" {
		t.Fatalf("expected 400 for missing city, got %d %v", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/weather?city=Temecula", "", "")
	if status != http.StatusOK || body["city"] != "Temecula" || body["visibility"].(float64) != 6 {
		t.Fatalf("unexpected response %d %v", status, body)
	}
	if _, ok := body["forecast"]; ok {
		t.Fatal("api weather must not include a forecast")
	}

	app = newTestApp(t, &stubProvider{currentErr: fmt.Errorf("%w: boom", weather.ErrUpstream)})
	status, body = do(t, app, http.MethodGet, "/api/weather?city=Temecula", "", "")
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(fmt.Sprint(body["error"]), "boom") {
		t.Fatalf("upstream detail leaked: %v", body["error"])
	}
}

func TestSearchAPI(t *testing.T) {
	p := &stubProvider{}
	app := newTestApp(t, p)

	status, body := do(t, app, http.MethodGet, "/api/search", "", "")
	if status != http.StatusBadRequest || body["error"] != "Search query is required" {
		t.Fatalf("expected 400, got %d %v", status, body)
	}
	if p.geoCalls != 0 {
		t.Fatal("expected no geocoding call for empty query")
	}

	status, body = do(t, app, http.MethodGet, "/api/search?q=paris", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	results := body["results"].([]interface{})
	if len(results) != 1 || results[0].(map[string]interface{})["display_name"] != "Paris, FR" {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestUsersAndNotesFlow(t *testing.T) {
	app := newTestApp(t, &stubProvider{})
	creds := `{"username": "ana", "password": "correct horse"}`

	if status, _ := do(t, app, http.MethodPost, "/users/register", creds, ""); status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/users/register", creds, ""); status != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/users/register", `{"username": "bo", "password": "x"}`, ""); status != http.StatusBadRequest {
		t.Fatalf("invalid register: expected 400, got %d", status)
	}

	status, body := do(t, app, http.MethodPost, "/users/login", creds, "")
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	token := body["token"].(string)

	if status, _ := do(t, app, http.MethodPost, "/categories", `{"name": "Travel"}`, ""); status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create: expected 401, got %d", status)
	}

	status, body = do(t, app, http.MethodPost, "/categories", `{"name": "Travel"}`, token)
	if status != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d", status)
	}
	catID := int(body["id"].(float64))

	status, body = do(t, app, http.MethodPost, "/notes",
		fmt.Sprintf(`{"title": "Rainy", "content": "Stayed in", "category_id": %d}`, catID), token)
	if status != http.StatusCreated || body["user"] != "ana" {
		t.Fatalf("create note: unexpected %d %v", status, body)
	}
	noteID := int(body["id"].(float64))

	if status, _ := do(t, app, http.MethodPost, "/notes", `{"title": "x", "content": "y", "category_id": 999}`, token); status != http.StatusBadRequest {
		t.Fatalf("unknown category: expected 400, got %d", status)
	}

	status, body = do(t, app, http.MethodGet, "/notes", "", "")
	if status != http.StatusOK || len(body["notes"].([]interface{})) != 1 {
		t.Fatalf("list notes: unexpected %d %v", status, body)
	}
	if status, _ := do(t, app, http.MethodGet, fmt.Sprintf("/notes/%d", noteID), "", ""); status != http.StatusOK {
		t.Fatalf("get note: expected 200, got %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/notes/999", "", ""); status != http.StatusNotFound {
		t.Fatalf("missing note: expected 404, got %d", status)
	}

	if status, _ := do(t, app, http.MethodPost, "/users/logout", "", token); status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/categories", `{"name": "Food"}`, token); status != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", status)
	}
}

func TestNotesReadOnlyWithoutAuth(t *testing.T) {
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	p := &stubProvider{}
	app := NewApp(nil)
	RegisterRoutes(app, Services{
		Weather: weather.NewService(p, p, weather.WithLocation(time.UTC)),
		Notes:   notes.NewStore(db),
	})

	if status, _ := do(t, app, http.MethodGet, "/notes", "", ""); status != http.StatusOK {
		t.Fatalf("list notes: expected 200, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/users/login", `{"username": "ana", "password": "correct horse"}`, ""); status != http.StatusNotFound {
		t.Fatalf("login without auth: expected 404, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/categories", `{"name": "Travel"}`, ""); status == http.StatusCreated {
		t.Fatal("category write must not be available without auth")
	}
	if status, _ := do(t, app, http.MethodGet, "/api/weather?city=Temecula", "", ""); status != http.StatusOK {
		t.Fatalf("weather without auth: expected 200, got %d", status)
	}
}
