package features

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-odds/internal/metrics"
	"github.com/yourusername/diamond-odds/internal/sportsdata"
)

// Provider supplies the raw season data the builder consumes. Implemented by
// sportsdata.Client; test doubles implement it directly.
type Provider interface {
	GetTeamSeasonStats(ctx context.Context, season int) ([]sportsdata.TeamStatsRecord, error)
	GetStandings(ctx context.Context, season int) ([]sportsdata.TeamStatsRecord, error)
	GetSchedule(ctx context.Context, season int) ([]sportsdata.GameRecord, error)
	GetGamesByDate(ctx context.Context, date time.Time) ([]sportsdata.GameRecord, error)
}

// Builder constructs feature frames from provider data.
type Builder struct {
	provider Provider
	logger   *logrus.Logger
	now      func() time.Time
}

// NewBuilder creates a feature builder backed by the given provider.
func NewBuilder(provider Provider, logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Builder{provider: provider, logger: logger, now: time.Now}
}

// teamIndexForSeason fetches team aggregates, falling back to the standings
// endpoint when the primary stats endpoint fails. Any standings failure
// propagates.
func (b *Builder) teamIndexForSeason(ctx context.Context, season int) (TeamIndex, error) {
	stats, err := b.provider.GetTeamSeasonStats(ctx, season)
	if err != nil {
		b.logger.WithError(err).WithField("season", season).
			Warn("Team stats endpoint failed, falling back to standings")
		metrics.StatsFallbacksTotal.Inc()
		stats, err = b.provider.GetStandings(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("standings fallback for season %d: %w", season, err)
		}
	}
	return IndexTeams(stats), nil
}

// BuildTrainingFrame builds the labeled frame across the given seasons, in
// season order then provider schedule order. Only rows with a computable
// home-win label survive.
func (b *Builder) BuildTrainingFrame(ctx context.Context, seasons []int) (*Frame, error) {
	frame := &Frame{}

	for _, season := range seasons {
		index, err := b.teamIndexForSeason(ctx, season)
		if err != nil {
			return nil, err
		}

		schedule, err := b.provider.GetSchedule(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("schedule for season %d: %w", season, err)
		}

		kept := 0
		for _, game := range schedule {
			row, ok := b.buildRow(game, season, index, "")
			if !ok {
				continue
			}
			row.HomeWon = gameLabel(game)
			if row.HomeWon == nil {
				continue
			}
			frame.Rows = append(frame.Rows, row)
			kept++
		}

		b.logger.WithFields(logrus.Fields{
			"season":   season,
			"schedule": len(schedule),
			"labeled":  kept,
		}).Info("Built training rows for season")
	}

	return frame, nil
}

// BuildPredictionFrameForDate builds the unlabeled frame for one slate of
// games. The season context is the date's year; weather stays unset here and
// is attached by the enrichment step.
func (b *Builder) BuildPredictionFrameForDate(ctx context.Context, date time.Time) (*Frame, error) {
	season := date.Year()

	index, err := b.teamIndexForSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	games, err := b.provider.GetGamesByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("games for %s: %w", date.Format("2006-01-02"), err)
	}

	frame := &Frame{}
	for _, game := range games {
		row, ok := b.buildRow(game, season, index, date.Format("2006-01-02"))
		if !ok {
			continue
		}
		row.Date = truncateToDate(date)
		frame.Rows = append(frame.Rows, row)
	}

	b.logger.WithFields(logrus.Fields{
		"date":  date.Format("2006-01-02"),
		"games": len(frame.Rows),
	}).Info("Built prediction frame")
	return frame, nil
}

// buildRow assembles the engineered features for one game. Games missing
// either team identity yield ok=false and are excluded, not defaulted.
func (b *Builder) buildRow(game sportsdata.GameRecord, season int, index TeamIndex, fallbackDate string) (GameFeatureRow, bool) {
	home := game.HomeTeam
	away := game.AwayTeam
	if home == "" || away == "" {
		return GameFeatureRow{}, false
	}

	gameID := game.ID()
	if gameID == "" {
		suffix := fallbackDate
		if suffix == "" {
			suffix = game.Day
		}
		gameID = fmt.Sprintf("%d-%s-%s-%s", season, home, away, suffix)
	}

	homeAggs := index.Lookup(home)
	awayAggs := index.Lookup(away)

	return GameFeatureRow{
		GameID:             gameID,
		Season:             season,
		Date:               b.gameDate(game),
		HomeTeam:           home,
		AwayTeam:           away,
		HomeWinPct:         homeAggs.WinPct,
		AwayWinPct:         awayAggs.WinPct,
		WinPctDiff:         homeAggs.WinPct - awayAggs.WinPct,
		HomeRunDiffPerGame: homeAggs.RunDiffPerGame,
		AwayRunDiffPerGame: awayAggs.RunDiffPerGame,
		RunDiffGap:         homeAggs.RunDiffPerGame - awayAggs.RunDiffPerGame,
	}, true
}

// gameLabel computes the home-win label: 1/0 when both final-score fields are
// present and parse as integers, nil otherwise.
func gameLabel(game sportsdata.GameRecord) *int {
	if game.HomeTeamRuns == nil || game.AwayTeamRuns == nil {
		return nil
	}
	homeRuns, err := game.HomeTeamRuns.Int64()
	if err != nil {
		return nil
	}
	awayRuns, err := game.AwayTeamRuns.Int64()
	if err != nil {
		return nil
	}
	label := 0
	if homeRuns > awayRuns {
		label = 1
	}
	return &label
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// gameDate parses the game date from the first of Day, DateTime, Date.
// Malformed or missing values fall back to today rather than failing the row.
func (b *Builder) gameDate(game sportsdata.GameRecord) time.Time {
	for _, raw := range []string{game.Day, game.DateTime, game.Date} {
		if raw == "" {
			continue
		}
		normalized := strings.Replace(raw, "Z", "+00:00", 1)
		for _, layout := range []string{"2006-01-02T15:04:05-07:00", "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, normalized); err == nil {
				return truncateToDate(t)
			}
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return truncateToDate(t)
		}
	}
	return truncateToDate(b.now())
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LocalStartHour extracts the local start hour from DateTime or Day,
// defaulting to 19:00 when neither parses.
func LocalStartHour(game sportsdata.GameRecord) int {
	for _, raw := range []string{game.DateTime, game.Day} {
		if raw == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Hour()
			}
		}
		if t, err := time.Parse("2006-01-02T15:04:05-07:00", raw); err == nil {
			return t.Hour()
		}
	}
	return 19
}
