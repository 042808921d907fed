package sportsdata

import "encoding/json"

// TeamStatsRecord is a team's aggregate season record as the provider returns
// it. Both the stats and standings endpoints share this shape; field names
// vary by product, so alternates are carried side by side and count fields are
// pointers to distinguish missing from zero.
type TeamStatsRecord struct {
	Team string `json:"Team"`
	Key  string `json:"Key"`
	Name string `json:"Name"`

	Wins   *float64 `json:"Wins"`
	Losses *float64 `json:"Losses"`
	Games  *float64 `json:"Games"`

	RunsScored  *float64 `json:"RunsScored"`
	Runs        *float64 `json:"Runs"`
	RunsAllowed *float64 `json:"RunsAllowed"`
	RunsAgainst *float64 `json:"RunsAgainst"`
}

// TeamKey returns the first non-empty of Team, Key, Name, or "" when the
// record carries no identity at all.
func (r TeamStatsRecord) TeamKey() string {
	if r.Team != "" {
		return r.Team
	}
	if r.Key != "" {
		return r.Key
	}
	return r.Name
}

// GameRecord is one scheduled or completed game as the provider returns it.
// Score fields stay raw (json.Number) so "present but unparseable" is
// distinguishable from absent.
type GameRecord struct {
	GameID    json.Number `json:"GameID"`
	GameIDAlt json.Number `json:"GameId"`

	HomeTeam string `json:"HomeTeam"`
	AwayTeam string `json:"AwayTeam"`

	Day      string `json:"Day"`
	DateTime string `json:"DateTime"`
	Date     string `json:"Date"`

	HomeTeamRuns *json.Number `json:"HomeTeamRuns"`
	AwayTeamRuns *json.Number `json:"AwayTeamRuns"`

	StadiumID    *int `json:"StadiumID"`
	StadiumIDAlt *int `json:"StadiumId"`
}

// ID returns the provider's game identifier under either field spelling.
func (g GameRecord) ID() string {
	if g.GameID.String() != "" {
		return g.GameID.String()
	}
	return g.GameIDAlt.String()
}

// Stadium returns the stadium identifier under either field spelling.
func (g GameRecord) Stadium() (int, bool) {
	if g.StadiumID != nil {
		return *g.StadiumID, true
	}
	if g.StadiumIDAlt != nil {
		return *g.StadiumIDAlt, true
	}
	return 0, false
}

// StadiumRecord is a ballpark record with its coordinates.
type StadiumRecord struct {
	StadiumID int      `json:"StadiumID"`
	Name      string   `json:"Name"`
	GeoLat    *float64 `json:"GeoLat"`
	GeoLong   *float64 `json:"GeoLong"`
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
}

// Coordinates returns the stadium's latitude/longitude, preferring the Geo
// fields, with ok=false when neither pair is usable.
func (s StadiumRecord) Coordinates() (lat, lon float64, ok bool) {
	latPtr := s.GeoLat
	if latPtr == nil {
		latPtr = s.Latitude
	}
	lonPtr := s.GeoLong
	if lonPtr == nil {
		lonPtr = s.Longitude
	}
	if latPtr == nil || lonPtr == nil {
		return 0, 0, false
	}
	return *latPtr, *lonPtr, true
}
