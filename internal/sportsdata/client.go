// Package sportsdata implements a minimal SportsDataIO MLB client covering
// the endpoints the feature pipeline consumes. The key is sent both as a
// query parameter and a subscription header; different products accept one or
// the other.
package sportsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/config"
	"github.com/yourusername/diamond-odds/internal/metrics"
)

// Client is a SportsDataIO MLB API client
type Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewClient creates a new SportsDataIO client from application configuration
func NewClient(cfg *config.SportsDataConfig, logger *logrus.Logger) *Client {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	return &Client{
		httpClient: NewRateLimitedHTTPClient(httpCfg, logger),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// GetTeamSeasonStats retrieves per-team aggregate statistics for a season
func (c *Client) GetTeamSeasonStats(ctx context.Context, season int) ([]TeamStatsRecord, error) {
	var records []TeamStatsRecord
	path := fmt.Sprintf("stats/json/TeamSeasonStats/%d", season)
	if err := c.getJSON(ctx, "team_season_stats", path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetStandings retrieves season standings; same record shape as team stats
func (c *Client) GetStandings(ctx context.Context, season int) ([]TeamStatsRecord, error) {
	var records []TeamStatsRecord
	path := fmt.Sprintf("scores/json/Standings/%d", season)
	if err := c.getJSON(ctx, "standings", path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetSchedule retrieves the full season schedule, completed games included
func (c *Client) GetSchedule(ctx context.Context, season int) ([]GameRecord, error) {
	var games []GameRecord
	path := fmt.Sprintf("scores/json/Games/%d", season)
	if err := c.getJSON(ctx, "schedule", path, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGamesByDate retrieves the games scheduled for a single date
func (c *Client) GetGamesByDate(ctx context.Context, date time.Time) ([]GameRecord, error) {
	var games []GameRecord
	path := fmt.Sprintf("scores/json/GamesByDate/%s", date.Format("2006-01-02"))
	if err := c.getJSON(ctx, "games_by_date", path, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetStadiums retrieves all ballpark records
func (c *Client) GetStadiums(ctx context.Context) ([]StadiumRecord, error) {
	var stadiums []StadiumRecord
	if err := c.getJSON(ctx, "stadiums", "scores/json/Stadiums", &stadiums); err != nil {
		return nil, err
	}
	return stadiums, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out interface{}) error {
	start := time.Now()
	err := c.doGetJSON(ctx, endpoint, path, out)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordProviderRequest(endpoint, status, time.Since(start).Seconds())
	return err
}

func (c *Client) doGetJSON(ctx context.Context, endpoint, path string, out interface{}) error {
	u := fmt.Sprintf("%s/%s?key=%s", c.baseURL, strings.TrimLeft(path, "/"), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return NewProviderError(endpoint, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewProviderError(endpoint, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewProviderError(endpoint, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(endpoint, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(endpoint, ErrCodeNotFound, "endpoint not found", ErrNotFound)
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return NewProviderError(endpoint, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return NewProviderError(endpoint, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), ErrServerError)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return NewProviderError(endpoint, ErrCodeInvalidData, "failed to parse response", err)
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"path":     path,
	}).Debug("Provider request completed")
	return nil
}
