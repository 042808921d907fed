// Package features turns raw provider records into the fixed feature rows the
// win-probability model is fit on.
package features

import (
	"github.com/yourusername/diamond-odds/internal/sportsdata"
)

// TeamAggregate holds the per-team season aggregates the feature set derives
// from. Recomputed from raw provider stats on every request, never persisted.
type TeamAggregate struct {
	WinPct         float64
	RunDiffPerGame float64
}

// NeutralAggregate is the prior used for teams with no season record: a .500
// team with even run differential.
func NeutralAggregate() TeamAggregate {
	return TeamAggregate{WinPct: 0.5, RunDiffPerGame: 0.0}
}

func value(p *float64) float64 {
	if p == nil {
		return 0.0
	}
	return *p
}

// Aggregate derives a TeamAggregate from a raw stats record. Missing counts
// are treated as zero; the denominators are floored at one game so an empty
// record yields {0.0, 0.0} rather than a division error.
func Aggregate(rec sportsdata.TeamStatsRecord) TeamAggregate {
	wins := value(rec.Wins)
	losses := value(rec.Losses)

	games := wins + losses
	if rec.Games != nil && *rec.Games != 0 {
		games = *rec.Games
	}
	if games == 0 {
		games = 1.0
	}

	runsScored := value(rec.RunsScored)
	if rec.RunsScored == nil {
		runsScored = value(rec.Runs)
	}
	runsAllowed := value(rec.RunsAllowed)
	if rec.RunsAllowed == nil {
		runsAllowed = value(rec.RunsAgainst)
	}

	denom := wins + losses
	if denom < 1.0 {
		denom = 1.0
	}

	return TeamAggregate{
		WinPct:         wins / denom,
		RunDiffPerGame: (runsScored - runsAllowed) / games,
	}
}

// TeamIndex maps a team key to its season aggregates.
type TeamIndex map[string]TeamAggregate

// IndexTeams builds a TeamIndex from raw stats records. Records without any
// team identity are skipped silently.
func IndexTeams(records []sportsdata.TeamStatsRecord) TeamIndex {
	index := make(TeamIndex, len(records))
	for _, rec := range records {
		key := rec.TeamKey()
		if key == "" {
			continue
		}
		index[key] = Aggregate(rec)
	}
	return index
}

// Lookup returns the aggregates for a team, falling back to the neutral
// prior for unseen teams. The default policy lives here and only here.
func (idx TeamIndex) Lookup(team string) TeamAggregate {
	if agg, ok := idx[team]; ok {
		return agg
	}
	return NeutralAggregate()
}
