package provider

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/pjb98/nfl-backend/pkg/metrics"
)

// DefaultGamesURL is the nflverse games table covering all seasons.
const DefaultGamesURL = "https://raw.githubusercontent.com/nflverse/nfldata/master/data/games.csv"

// NFLVerse fetches datasets from the public nflverse CSV exports.
type NFLVerse struct {
	gamesURL string
	client   *http.Client
}

// NewNFLVerse returns a provider reading from gamesURL. An empty URL falls
// back to DefaultGamesURL; a non-positive timeout leaves the client without
// one (the transport decides).
func NewNFLVerse(gamesURL string, timeout time.Duration) *NFLVerse {
	if gamesURL == "" {
		gamesURL = DefaultGamesURL
	}
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &NFLVerse{
		gamesURL: gamesURL,
		client:   client,
	}
}

// Schedule downloads the games table and returns the rows matching season
// and week.
func (p *NFLVerse) Schedule(ctx context.Context, season, week int) ([]Game, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.gamesURL, nil)
	if err != nil {
		return nil, p.fail("schedule", errors.Wrap(err, "failed to build request"))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.fail("schedule", errors.Wrap(err, "failed to fetch games table"))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.fail("schedule", errors.Errorf("upstream returned %s", resp.Status))
	}

	games, err := decodeGames(resp.Body, season, week)
	if err != nil {
		return nil, p.fail("schedule", err)
	}

	metrics.UpstreamDuration.WithLabelValues("schedule").Observe(time.Since(start).Seconds())
	return games, nil
}

// Standings is not published as an nflverse dataset.
// TODO: derive standings from the games table instead of returning an empty
// payload.
func (p *NFLVerse) Standings(_ context.Context, _ int) ([]Standing, error) {
	return []Standing{}, nil
}

// TeamStats is not wired to an upstream dataset yet.
func (p *NFLVerse) TeamStats(_ context.Context, _ int) (map[string]TeamStat, error) {
	return map[string]TeamStat{}, nil
}

func (p *NFLVerse) fail(dataset string, err error) error {
	metrics.UpstreamErrors.WithLabelValues(dataset).Inc()
	return &FetchError{Dataset: dataset, Err: err}
}

// decodeGames reads the games CSV and maps the rows for season/week onto
// Game values. Missing columns decode to their zero value; empty or "NA"
// cells in nullable columns decode to nil.
func decodeGames(r io.Reader, season, week int) ([]Game, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	games := []Game{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "malformed csv row")
		}

		row := record{rec: rec, col: col}
		if row.intVal("season") != season || row.intVal("week") != week {
			continue
		}

		games = append(games, Game{
			GameID:        row.str("game_id"),
			Season:        season,
			Week:          week,
			Gameday:       row.str("gameday"),
			Weekday:       row.str("weekday"),
			Gametime:      row.str("gametime"),
			AwayTeam:      row.str("away_team"),
			HomeTeam:      row.str("home_team"),
			AwayScore:     row.intPtr("away_score"),
			HomeScore:     row.intPtr("home_score"),
			Result:        row.intPtr("result"),
			Total:         row.floatPtr("total"),
			Overtime:      row.intVal("overtime"),
			AwayRest:      row.intVal("away_rest"),
			HomeRest:      row.intVal("home_rest"),
			AwayMoneyline: row.floatPtr("away_moneyline"),
			HomeMoneyline: row.floatPtr("home_moneyline"),
			SpreadLine:    row.floatPtr("spread_line"),
			TotalLine:     row.floatPtr("total_line"),
			DivGame:       row.intVal("div_game"),
			Roof:          row.str("roof"),
			Surface:       row.str("surface"),
			Temp:          row.floatPtr("temp"),
			Wind:          row.floatPtr("wind"),
			AwayQBName:    row.str("away_qb_name"),
			HomeQBName:    row.str("home_qb_name"),
			AwayCoach:     row.str("away_coach"),
			HomeCoach:     row.str("home_coach"),
			Referee:       row.str("referee"),
			Stadium:       row.str("stadium"),
		})
	}

	return games, nil
}

// record accesses one CSV row through the header index.
type record struct {
	rec []string
	col map[string]int
}

func (r record) str(name string) string {
	i, ok := r.col[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	v := r.rec[i]
	if v == "NA" {
		return ""
	}
	return v
}

func (r record) intVal(name string) int {
	n, err := strconv.Atoi(r.str(name))
	if err != nil {
		return 0
	}
	return n
}

func (r record) intPtr(name string) *int {
	s := r.str(name)
	if s == "" {
		return nil
	}
	// Scores arrive as "27" or "27.0" depending on the export.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func (r record) floatPtr(name string) *float64 {
	s := r.str(name)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
