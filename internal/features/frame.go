package features

import "time"

// Canonical feature column names.
const (
	ColHomeWinPct         = "home_win_pct"
	ColAwayWinPct         = "away_win_pct"
	ColWinPctDiff         = "win_pct_diff"
	ColHomeRunDiffPerGame = "home_run_diff_per_game"
	ColAwayRunDiffPerGame = "away_run_diff_per_game"
	ColRunDiffGap         = "run_diff_gap"
	ColTempC              = "temp_c"
	ColPrecipProb         = "precip_prob"
	ColWindspeed          = "windspeed"
)

// GameFeatureRow is one game's engineered feature vector plus identity and,
// for completed games, the home-win label. Weather fields are only populated
// at prediction time.
type GameFeatureRow struct {
	GameID   string    `json:"game_id"`
	Season   int       `json:"season"`
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`

	HomeWinPct         float64 `json:"home_win_pct"`
	AwayWinPct         float64 `json:"away_win_pct"`
	WinPctDiff         float64 `json:"win_pct_diff"`
	HomeRunDiffPerGame float64 `json:"home_run_diff_per_game"`
	AwayRunDiffPerGame float64 `json:"away_run_diff_per_game"`
	RunDiffGap         float64 `json:"run_diff_gap"`

	TempC      *float64 `json:"temp_c"`
	PrecipProb *float64 `json:"precip_prob"`
	Windspeed  *float64 `json:"windspeed"`

	HomeWon *int `json:"home_won"`
}

// Feature returns the row's value under a canonical column name.
// known=false means the column is not one the row carries at all; null=true
// means the column is optional and unset for this row.
func (r GameFeatureRow) Feature(col string) (val float64, null bool, known bool) {
	switch col {
	case ColHomeWinPct:
		return r.HomeWinPct, false, true
	case ColAwayWinPct:
		return r.AwayWinPct, false, true
	case ColWinPctDiff:
		return r.WinPctDiff, false, true
	case ColHomeRunDiffPerGame:
		return r.HomeRunDiffPerGame, false, true
	case ColAwayRunDiffPerGame:
		return r.AwayRunDiffPerGame, false, true
	case ColRunDiffGap:
		return r.RunDiffGap, false, true
	case ColTempC:
		return optional(r.TempC)
	case ColPrecipProb:
		return optional(r.PrecipProb)
	case ColWindspeed:
		return optional(r.Windspeed)
	default:
		return 0, false, false
	}
}

func optional(p *float64) (float64, bool, bool) {
	if p == nil {
		return 0, true, true
	}
	return *p, false, true
}

// Frame is an ordered collection of feature rows, one per game.
type Frame struct {
	Rows []GameFeatureRow
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// ColumnPresent reports whether a column is materialized in this frame: the
// six engineered features always are (for a non-empty frame); an optional
// column counts as present when at least one row carries a value. A column
// the rows don't know at all is never present and callers fill it with zeros.
func (f *Frame) ColumnPresent(col string) bool {
	if len(f.Rows) == 0 {
		return false
	}
	_, _, known := f.Rows[0].Feature(col)
	if !known {
		return false
	}
	switch col {
	case ColTempC, ColPrecipProb, ColWindspeed:
		for _, row := range f.Rows {
			if _, null, _ := row.Feature(col); !null {
				return true
			}
		}
		return false
	default:
		return true
	}
}
