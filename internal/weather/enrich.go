package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/features"
	"github.com/yourusername/diamond-odds/internal/sportsdata"
)

// EnrichFrame attaches game-time weather to a prediction frame, matched by
// game id. Games whose stadium has no usable coordinates are skipped and
// their rows keep nil weather; a forecast fetch failure aborts the
// enrichment.
func EnrichFrame(ctx context.Context, client *Client, frame *features.Frame, games []sportsdata.GameRecord, stadiums []sportsdata.StadiumRecord, logger *logrus.Logger) error {
	stadiumsByID := make(map[int]sportsdata.StadiumRecord, len(stadiums))
	for _, s := range stadiums {
		stadiumsByID[s.StadiumID] = s
	}

	byGameID := make(map[string]HourWeather, len(games))
	for _, game := range games {
		gameID := game.ID()
		if gameID == "" {
			continue
		}

		stadiumID, ok := game.Stadium()
		if !ok {
			continue
		}
		stadium, ok := stadiumsByID[stadiumID]
		if !ok {
			continue
		}
		lat, lon, ok := stadium.Coordinates()
		if !ok {
			logger.WithField("stadium_id", stadiumID).Debug("Stadium has no coordinates, skipping weather")
			continue
		}

		date := gameDateOrToday(game)
		forecast, err := client.FetchHourlyForecast(ctx, lat, lon, date)
		if err != nil {
			return fmt.Errorf("forecast for game %s: %w", gameID, err)
		}

		hour := features.LocalStartHour(game)
		byGameID[gameID] = SelectHourWeather(forecast, hour)
	}

	for i := range frame.Rows {
		w, ok := byGameID[frame.Rows[i].GameID]
		if !ok {
			continue
		}
		frame.Rows[i].TempC = w.TempC
		frame.Rows[i].PrecipProb = w.PrecipProb
		frame.Rows[i].Windspeed = w.Windspeed
	}

	logger.WithFields(logrus.Fields{
		"games":    len(frame.Rows),
		"enriched": len(byGameID),
	}).Info("Weather enrichment complete")
	return nil
}

func gameDateOrToday(game sportsdata.GameRecord) time.Time {
	for _, raw := range []string{game.Day, game.DateTime, game.Date} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Now()
}
