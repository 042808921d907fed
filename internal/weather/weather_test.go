package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/config"
	"github.com/yourusername/diamond-odds/internal/features"
	"github.com/yourusername/diamond-odds/internal/sportsdata"
)

const forecastJSON = `{
	"hourly": {
		"time": ["2025-06-01T18:00", "2025-06-01T19:00", "2025-06-01T20:00"],
		"temperature_2m": [22.1, 21.5, 20.9],
		"precipitation_probability": [10, 15, 20],
		"windspeed_10m": [8.2, 9.1, 10.3]
	}
}`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.WeatherConfig{
		BaseURL:         server.URL,
		Timezone:        "America/New_York",
		TimeoutSeconds:  5,
		CacheTTLMinutes: 10,
	}, quietLogger())
}

func TestSelectHourWeatherExactMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastJSON))
	})

	forecast, err := client.FetchHourlyForecast(context.Background(), 40.8, -73.9, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	w := SelectHourWeather(forecast, 19)
	if w.TempC == nil || *w.TempC != 21.5 {
		t.Errorf("expected temp 21.5 at 19:00, got %v", w.TempC)
	}
	if w.PrecipProb == nil || *w.PrecipProb != 15 {
		t.Errorf("expected precip 15 at 19:00, got %v", w.PrecipProb)
	}
	if w.Windspeed == nil || *w.Windspeed != 9.1 {
		t.Errorf("expected windspeed 9.1 at 19:00, got %v", w.Windspeed)
	}
}

func TestSelectHourWeatherNoMatch(t *testing.T) {
	forecast := &HourlyForecast{Hourly: HourlySeries{
		Time:          []string{"2025-06-01T10:00"},
		Temperature2M: []float64{18.0},
	}}
	w := SelectHourWeather(forecast, 19)
	if w.TempC != nil || w.PrecipProb != nil || w.Windspeed != nil {
		t.Fatal("no matching hour should leave every field nil")
	}
}

func TestSelectHourWeatherShortArrays(t *testing.T) {
	forecast := &HourlyForecast{Hourly: HourlySeries{
		Time:          []string{"2025-06-01T19:00"},
		Temperature2M: []float64{21.0},
		// precipitation and windspeed arrays shorter than time
	}}
	w := SelectHourWeather(forecast, 19)
	if w.TempC == nil || *w.TempC != 21.0 {
		t.Errorf("expected temp from the one present array, got %v", w.TempC)
	}
	if w.PrecipProb != nil || w.Windspeed != nil {
		t.Error("missing series should leave their fields nil")
	}
}

func TestFetchHourlyForecastCaches(t *testing.T) {
	var calls int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(forecastJSON))
	})

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := client.FetchHourlyForecast(context.Background(), 40.8, -73.9, date); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call for repeated coordinates, got %d", calls)
	}

	// Different coordinates miss the cache.
	if _, err := client.FetchHourlyForecast(context.Background(), 41.9, -87.6, date); err != nil {
		t.Fatalf("fetch for new coords failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a second upstream call for new coordinates, got %d", calls)
	}
}

func TestFetchHourlyForecastServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchHourlyForecast(context.Background(), 40.8, -73.9, time.Now())
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestEnrichFrameAttachesByGameID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastJSON))
	})

	lat, lon := 40.8296, -73.9262
	stadiumID := 7
	games := []sportsdata.GameRecord{
		{GameID: "100", HomeTeam: "NYY", AwayTeam: "BOS", DateTime: "2025-06-01T19:00:00", StadiumID: &stadiumID},
	}
	stadiums := []sportsdata.StadiumRecord{
		{StadiumID: 7, GeoLat: &lat, GeoLong: &lon},
	}
	frame := &features.Frame{Rows: []features.GameFeatureRow{
		{GameID: "100", HomeTeam: "NYY", AwayTeam: "BOS"},
		{GameID: "999", HomeTeam: "CHC", AwayTeam: "STL"},
	}}

	if err := EnrichFrame(context.Background(), client, frame, games, stadiums, quietLogger()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if frame.Rows[0].TempC == nil || *frame.Rows[0].TempC != 21.5 {
		t.Errorf("expected enriched temp for matched game, got %v", frame.Rows[0].TempC)
	}
	if frame.Rows[1].TempC != nil {
		t.Error("unmatched game should keep nil weather")
	}
}

func TestEnrichFrameSkipsStadiumWithoutCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no forecast call expected for a stadium without coordinates")
	})

	stadiumID := 3
	games := []sportsdata.GameRecord{
		{GameID: "200", HomeTeam: "NYY", AwayTeam: "BOS", StadiumID: &stadiumID},
	}
	stadiums := []sportsdata.StadiumRecord{{StadiumID: 3}}
	frame := &features.Frame{Rows: []features.GameFeatureRow{{GameID: "200"}}}

	if err := EnrichFrame(context.Background(), client, frame, games, stadiums, quietLogger()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if frame.Rows[0].TempC != nil {
		t.Error("row should keep nil weather when no coordinates exist")
	}
}
