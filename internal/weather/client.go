// Package weather fetches Open-Meteo hourly forecasts and attaches game-time
// weather to prediction frames.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/config"
	"github.com/yourusername/diamond-odds/internal/metrics"
)

// HourlyForecast is the Open-Meteo hourly response subset the enrichment
// step consumes.
type HourlyForecast struct {
	Hourly HourlySeries `json:"hourly"`
}

// HourlySeries carries parallel arrays indexed by hour.
type HourlySeries struct {
	Time                     []string  `json:"time"`
	Temperature2M            []float64 `json:"temperature_2m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Windspeed10M             []float64 `json:"windspeed_10m"`
}

// HourWeather is the weather at a single selected hour. All fields are nil
// when no hour matched.
type HourWeather struct {
	TempC      *float64
	PrecipProb *float64
	Windspeed  *float64
}

// Client fetches forecasts with an in-memory cache so several games at the
// same ballpark on the same date share one upstream call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timezone   string
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates an Open-Meteo client from application configuration.
func NewClient(cfg *config.WeatherConfig, logger *logrus.Logger) *Client {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:    cfg.BaseURL,
		timezone:   cfg.Timezone,
		cache:      cache.New(ttl, ttl*2),
		logger:     logger,
	}
}

// FetchHourlyForecast retrieves the hourly forecast for one location and
// date, serving repeats from the cache.
func (c *Client) FetchHourlyForecast(ctx context.Context, lat, lon float64, date time.Time) (*HourlyForecast, error) {
	key := fmt.Sprintf("%.4f:%.4f:%s", lat, lon, date.Format("2006-01-02"))
	if cached, found := c.cache.Get(key); found {
		metrics.WeatherCacheHitsTotal.Inc()
		return cached.(*HourlyForecast), nil
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%v", lat))
	params.Set("longitude", fmt.Sprintf("%v", lon))
	params.Set("hourly", "temperature_2m,precipitation_probability,windspeed_10m")
	params.Set("start_date", date.Format("2006-01-02"))
	params.Set("end_date", date.Format("2006-01-02"))
	params.Set("timezone", c.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request returned status %d", resp.StatusCode)
	}

	forecast := &HourlyForecast{}
	if err := json.NewDecoder(resp.Body).Decode(forecast); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	c.cache.Set(key, forecast, cache.DefaultExpiration)
	return forecast, nil
}

var hourLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// SelectHourWeather picks the single hour of the forecast matching the
// target local hour. No match leaves every field nil.
func SelectHourWeather(forecast *HourlyForecast, targetHour int) HourWeather {
	selected := HourWeather{}
	if forecast == nil {
		return selected
	}

	hourly := forecast.Hourly
	for idx, timeStr := range hourly.Time {
		hour, ok := parseHour(timeStr)
		if !ok {
			continue
		}
		if hour != targetHour {
			continue
		}
		if idx < len(hourly.Temperature2M) {
			v := hourly.Temperature2M[idx]
			selected.TempC = &v
		}
		if idx < len(hourly.PrecipitationProbability) {
			v := hourly.PrecipitationProbability[idx]
			selected.PrecipProb = &v
		}
		if idx < len(hourly.Windspeed10M) {
			v := hourly.Windspeed10M[idx]
			selected.Windspeed = &v
		}
		break
	}
	return selected
}

func parseHour(timeStr string) (int, bool) {
	for _, layout := range hourLayouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}
