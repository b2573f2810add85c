// Package provider fetches NFL datasets from the upstream nflverse data
// source. Adapters here do one unit of work per call: fetch, decode, shape.
// Retries and caching are the caller's business.
package provider

import (
	"context"
	"fmt"
)

// Provider is the upstream data source the API serves from.
type Provider interface {
	// Schedule returns the games for one season and week.
	Schedule(ctx context.Context, season, week int) ([]Game, error)
	// Standings returns the season standings table.
	Standings(ctx context.Context, season int) ([]Standing, error)
	// TeamStats returns per-team season statistics keyed by team code.
	TeamStats(ctx context.Context, season int) (map[string]TeamStat, error)
}

// FetchError is any failure talking to or decoding the upstream source.
// Callers branch on the type, not the message.
type FetchError struct {
	Dataset string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Dataset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Game is one scheduled or played game, shaped for JSON. Columns that can be
// missing upstream (unplayed games, missing weather data, no betting lines)
// are pointers and serialize as null.
type Game struct {
	GameID        string   `json:"game_id"`
	Season        int      `json:"season"`
	Week          int      `json:"week"`
	Gameday       string   `json:"gameday"`
	Weekday       string   `json:"weekday"`
	Gametime      string   `json:"gametime"`
	AwayTeam      string   `json:"away_team"`
	HomeTeam      string   `json:"home_team"`
	AwayScore     *int     `json:"away_score"`
	HomeScore     *int     `json:"home_score"`
	Result        *int     `json:"result"`
	Total         *float64 `json:"total"`
	Overtime      int      `json:"overtime"`
	AwayRest      int      `json:"away_rest"`
	HomeRest      int      `json:"home_rest"`
	AwayMoneyline *float64 `json:"away_moneyline"`
	HomeMoneyline *float64 `json:"home_moneyline"`
	SpreadLine    *float64 `json:"spread_line"`
	TotalLine     *float64 `json:"total_line"`
	DivGame       int      `json:"div_game"`
	Roof          string   `json:"roof"`
	Surface       string   `json:"surface"`
	Temp          *float64 `json:"temp"`
	Wind          *float64 `json:"wind"`
	AwayQBName    string   `json:"away_qb_name"`
	HomeQBName    string   `json:"home_qb_name"`
	AwayCoach     string   `json:"away_coach"`
	HomeCoach     string   `json:"home_coach"`
	Referee       string   `json:"referee"`
	Stadium       string   `json:"stadium"`
}

// Standing is one team's row in the season standings.
type Standing struct {
	Team   string `json:"team"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
}

// TeamStat aggregates one team's season statistics.
type TeamStat struct {
	Team          string `json:"team"`
	GamesPlayed   int    `json:"games_played"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}
