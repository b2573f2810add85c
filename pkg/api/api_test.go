package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/pjb98/nfl-backend/pkg/cache"
	"github.com/pjb98/nfl-backend/pkg/provider"
)

// stubProvider implements provider.Provider for handler testing.
type stubProvider struct {
	mu            sync.Mutex
	scheduleCalls int
	games         []provider.Game
	err           error
}

func (s *stubProvider) Schedule(_ context.Context, season, week int) ([]provider.Game, error) {
	s.mu.Lock()
	s.scheduleCalls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.games, nil
}

func (s *stubProvider) Standings(_ context.Context, _ int) ([]provider.Standing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []provider.Standing{}, nil
}

func (s *stubProvider) TeamStats(_ context.Context, _ int) (map[string]provider.TeamStat, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]provider.TeamStat{}, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleCalls
}

// newTestRouter wires the controllers the way cmd/nfl-backend does, minus
// the rate limiter and CORS wrapping.
func newTestRouter(t *testing.T, p provider.Provider) (*httprouter.Router, *cache.Cache) {
	t.Helper()
	store := cache.New(cache.Options{TTL: 300 * time.Second})

	r := httprouter.New()
	r.GET("/", Home)
	r.GET("/version", Version)
	r.GET("/api/schedule/:season/:week", NewScheduleController(store, p).Handle)
	r.GET("/api/standings/:season", NewStandingsController(store, p).Handle)
	r.GET("/api/team-stats/:season", NewTeamStatsController(store, p).Handle)
	r.GET("/api/health", NewHealthController(store).Handle)
	return r, store
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	body := map[string]interface{}{}
	if w.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return w, body
}

func TestScheduleEndpointCachesUpstream(t *testing.T) {
	p := &stubProvider{games: []provider.Game{
		{GameID: "2024_01_BAL_KC", Season: 2024, Week: 1, AwayTeam: "BAL", HomeTeam: "KC"},
	}}
	r, _ := newTestRouter(t, p)

	w, body := get(t, r, "/api/schedule/2024/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["status"] != "success" {
		t.Fatalf("status field = %v", body["status"])
	}
	if body["count"].(float64) != 1 || body["season"].(float64) != 2024 || body["week"].(float64) != 1 {
		t.Fatalf("envelope = %v", body)
	}

	// Second request inside the TTL window is a hit: same body, no new
	// upstream call.
	w2, body2 := get(t, r, "/api/schedule/2024/1")
	if w2.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w2.Code)
	}
	if diff := cmp.Diff(body, body2); diff != "" {
		t.Fatalf("cached response differs (-first +second):\n%s", diff)
	}
	if p.calls() != 1 {
		t.Fatalf("upstream calls = %d, want 1", p.calls())
	}
}

// blockingProvider holds Schedule open until release is closed and fails if
// its context is cancelled first, like a real HTTP client would.
type blockingProvider struct {
	stubProvider
	startOnce sync.Once
	started   chan struct{}
	release   chan struct{}
}

func newBlockingProvider(games []provider.Game) *blockingProvider {
	return &blockingProvider{
		stubProvider: stubProvider{games: games},
		started:      make(chan struct{}),
		release:      make(chan struct{}),
	}
}

func (b *blockingProvider) Schedule(ctx context.Context, _, _ int) ([]provider.Game, error) {
	b.startOnce.Do(func() { close(b.started) })
	select {
	case <-ctx.Done():
		return nil, &provider.FetchError{Dataset: "schedule", Err: ctx.Err()}
	case <-b.release:
		return b.games, nil
	}
}

func TestScheduleFetchSurvivesInitiatorDisconnect(t *testing.T) {
	p := newBlockingProvider([]provider.Game{{GameID: "2024_01_BAL_KC", Season: 2024, Week: 1}})
	store := cache.New(cache.Options{TTL: 300 * time.Second, DedupeFetches: true})

	r := httprouter.New()
	r.GET("/api/schedule/:season/:week", NewScheduleController(store, p).Handle)

	ctx, cancel := context.WithCancel(context.Background())
	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/api/schedule/2024/1", nil).WithContext(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.ServeHTTP(w1, req1)
	}()
	<-p.started

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/schedule/2024/1", nil)
	go func() {
		defer wg.Done()
		r.ServeHTTP(w2, req2)
	}()

	// The initiating client disconnects while the shared fetch is still in
	// flight; the fetch must keep going for the coalesced waiter.
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(p.release)
	wg.Wait()

	if w1.Code != http.StatusOK {
		t.Fatalf("initiator status = %d (%s), want 200", w1.Code, w1.Body.String())
	}
	if w2.Code != http.StatusOK {
		t.Fatalf("waiter status = %d (%s), want 200", w2.Code, w2.Body.String())
	}
}

func TestScheduleEndpointRejectsBadParams(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w, body := get(t, r, "/api/schedule/abc/1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["status"] != "error" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestScheduleEndpointUpstreamFailure(t *testing.T) {
	p := &stubProvider{err: &provider.FetchError{Dataset: "schedule", Err: errors.New("timeout")}}
	r, _ := newTestRouter(t, p)

	w, body := get(t, r, "/api/schedule/2024/1")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if body["status"] != "error" {
		t.Fatalf("status field = %v", body["status"])
	}
	data, ok := body["data"].([]interface{})
	if !ok || len(data) != 0 {
		t.Fatalf("data = %v, want empty list", body["data"])
	}
}

func TestStandingsEndpointReturnsEmptyPayload(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w, body := get(t, r, "/api/standings/2024")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	data, ok := body["data"].([]interface{})
	if !ok || len(data) != 0 {
		t.Fatalf("data = %v, want empty list", body["data"])
	}
	if body["season"].(float64) != 2024 {
		t.Fatalf("season = %v", body["season"])
	}
}

func TestTeamStatsEndpointReturnsEmptyPayload(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w, body := get(t, r, "/api/team-stats/2024")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok || len(data) != 0 {
		t.Fatalf("data = %v, want empty object", body["data"])
	}
}

func TestHealthReportsCacheSize(t *testing.T) {
	p := &stubProvider{games: []provider.Game{}}
	r, _ := newTestRouter(t, p)

	if _, body := get(t, r, "/api/health"); body["cache_size"].(float64) != 0 {
		t.Fatalf("cache_size = %v, want 0", body["cache_size"])
	}

	get(t, r, "/api/schedule/2024/1")
	get(t, r, "/api/standings/2024")

	w, body := get(t, r, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %v", body["status"])
	}
	if body["cache_size"].(float64) != 2 {
		t.Fatalf("cache_size = %v, want 2", body["cache_size"])
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Fatalf("timestamp %v not RFC3339: %v", body["timestamp"], err)
	}
}

func TestHomeListsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, &stubProvider{})

	w, body := get(t, r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["message"] != "NFL Data API Backend" || body["status"] != "running" {
		t.Fatalf("banner = %v", body)
	}
	if endpoints, ok := body["endpoints"].([]interface{}); !ok || len(endpoints) != 3 {
		t.Fatalf("endpoints = %v", body["endpoints"])
	}
}
