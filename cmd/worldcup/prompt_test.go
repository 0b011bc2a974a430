package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/worldcup/config"
	"github.com/Dosada05/worldcup/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"undo", command{kind: cmdUndo}},
		{"  U ", command{kind: cmdUndo}},
		{"restart", command{kind: cmdRestart}},
		{"restart 16", command{kind: cmdRestart, size: 16}},
		{"status", command{kind: cmdStatus}},
		{"?", command{kind: cmdHelp}},
		{"quit", command{kind: cmdQuit}},
		{"a", command{kind: cmdPick, arg: "a"}},
		{`pick "Green Tea"`, command{kind: cmdPick, arg: "Green Tea"}},
		{"green tea", command{kind: cmdPick, arg: "green tea"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	_, err := parseCommand("   ")
	assert.ErrorIs(t, err, errEmptyCommand)

	_, err = parseCommand("restart many")
	assert.Error(t, err)

	_, err = parseCommand("restart -4")
	assert.Error(t, err)

	_, err = parseCommand("pick")
	assert.Error(t, err)
}

func testMatch() *models.Match {
	return &models.Match{
		ID:    "r1m1",
		Round: 1,
		ItemA: &models.Item{ID: "tea", Title: "Green Tea"},
		ItemB: &models.Item{ID: "coffee", Title: "Black Coffee"},
	}
}

func TestResolvePick(t *testing.T) {
	m := testMatch()

	for input, want := range map[string]string{
		"a":            "tea",
		"B":            "coffee",
		"1":            "tea",
		"2":            "coffee",
		"green tea":    "tea",
		"coffee":       "coffee",
		"grntea":       "tea",
		"BLACK COFFEE": "coffee",
	} {
		got, err := resolvePick(m, input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got.ID, input)
	}
}

func TestResolvePickFailures(t *testing.T) {
	m := testMatch()

	_, err := resolvePick(m, "pizza")
	assert.ErrorIs(t, err, errNoMatch)

	_, err = resolvePick(nil, "a")
	assert.Error(t, err)

	done := testMatch()
	done.IsCompleted = true
	_, err = resolvePick(done, "a")
	assert.Error(t, err)
}

func TestPrintStatisticsOrdersByChampionships(t *testing.T) {
	var buf bytes.Buffer
	printStatistics(&buf, &models.WorldcupStatistics{
		TotalPlays: 4,
		Items: []models.ItemStatistics{
			{Title: "Low", Championships: 1},
			{Title: "High", Championships: 3},
		},
	}, 1)

	out := buf.String()
	assert.Contains(t, out, "over 4 plays")
	assert.Contains(t, out, "High")
	assert.NotContains(t, out, "Low")
}

type fakeCollector struct {
	items    []*models.Item
	mu       sync.Mutex
	votes    []models.VoteRecord
	sessions int
	results  []models.StatisticsUpdate
}

func (f *fakeCollector) handler(t *testing.T) http.Handler {
	if f.items == nil {
		f.items = []*models.Item{{ID: "tea", Title: "Tea"}, {ID: "coffee", Title: "Coffee"}, {ID: "juice", Title: "Juice"}}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/worldcups/wc-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"worldcup": models.Worldcup{
			ID:    "wc-1",
			Title: "Drinks",
			Items: f.items,
		}})
	})
	mux.HandleFunc("POST /api/v1/worldcups/wc-1/sessions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.sessions++
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"session": models.Session{Token: "tok", WorldcupID: "wc-1"}})
	})
	mux.HandleFunc("POST /api/v1/worldcups/wc-1/votes/bulk", func(w http.ResponseWriter, r *http.Request) {
		var req models.BulkVoteRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.votes = append(f.votes, req.Votes...)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(models.BulkVoteResult{SuccessfulVotes: len(req.Votes)})
	})
	mux.HandleFunc("POST /api/v1/worldcups/wc-1/statistics", func(w http.ResponseWriter, r *http.Request) {
		var u models.StatisticsUpdate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&u))
		f.mu.Lock()
		f.results = append(f.results, u)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /api/v1/worldcups/wc-1/statistics", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"statistics": models.WorldcupStatistics{
			WorldcupID: "wc-1",
			TotalPlays: 1,
			Items:      []models.ItemStatistics{{ItemID: "tea", Title: "Tea", Championships: 1}},
		}})
	})
	return mux
}

func TestRunPlaysToCompletion(t *testing.T) {
	fc := &fakeCollector{}
	srv := httptest.NewServer(fc.handler(t))
	defer srv.Close()

	cfg := &config.ClientConfig{
		CollectorURL:     srv.URL,
		CollectorTimeout: time.Second,
		FlushGracePeriod: 100 * time.Millisecond,
		Strict:           true,
	}
	var out bytes.Buffer
	in := strings.NewReader("status\nundo\na\nundo\na\na\nquit\n")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), cfg, "wc-1", 0, in, &out, logger)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Drinks: 3 items, bracket of 4")
	assert.Contains(t, out.String(), "decisions per play")
	assert.Contains(t, out.String(), "Winner:")
	assert.Contains(t, out.String(), "over 1 plays")

	fc.mu.Lock()
	defer fc.mu.Unlock()
	// одна отмена вычеркнула голос до отправки
	assert.Len(t, fc.votes, 2)
	require.Len(t, fc.results, 1)
	assert.Equal(t, "tok", fc.results[0].SessionToken)
	assert.NotNil(t, fc.results[0].Winner)
	assert.Equal(t, 1, fc.sessions)
}

func TestRunRecordsBracketDecidedByByes(t *testing.T) {
	fc := &fakeCollector{items: []*models.Item{{ID: "tea", Title: "Tea"}}}
	srv := httptest.NewServer(fc.handler(t))
	defer srv.Close()

	cfg := &config.ClientConfig{
		CollectorURL:     srv.URL,
		CollectorTimeout: time.Second,
		FlushGracePeriod: 100 * time.Millisecond,
	}
	var out bytes.Buffer
	err := run(context.Background(), cfg, "wc-1", 0, strings.NewReader("quit\n"), &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Winner: Tea")
	assert.Contains(t, out.String(), "over 1 plays")

	fc.mu.Lock()
	defer fc.mu.Unlock()
	assert.Empty(t, fc.votes)
	require.Len(t, fc.results, 1)
	require.NotNil(t, fc.results[0].Winner)
	assert.Equal(t, "tea", fc.results[0].Winner.ID)
}

func TestRunFailsOnUnknownWorldcup(t *testing.T) {
	fc := &fakeCollector{}
	srv := httptest.NewServer(fc.handler(t))
	defer srv.Close()

	cfg := &config.ClientConfig{CollectorURL: srv.URL, CollectorTimeout: time.Second}
	err := run(context.Background(), cfg, "missing", 0, strings.NewReader(""), io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
