package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/repositories"
	"github.com/Dosada05/worldcup/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTx struct{}

func (fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeStore struct {
	mu         sync.Mutex
	worldcups  map[string]*models.Worldcup
	items      map[string][]*models.Item
	keys       map[string]bool
	wins       map[string]int
	losses     map[string]int
	champs     map[string]int
	plays      map[string]string
	statsReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		worldcups: map[string]*models.Worldcup{"wc-1": {ID: "wc-1", Title: "Snacks"}},
		items: map[string][]*models.Item{"wc-1": {
			{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}, {ID: "d", Title: "D"},
		}},
		keys:   map[string]bool{},
		wins:   map[string]int{},
		losses: map[string]int{},
		champs: map[string]int{},
		plays:  map[string]string{},
	}
}

func (f *fakeStore) hasItem(worldcupID, itemID string) bool {
	for _, it := range f.items[worldcupID] {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*models.Worldcup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wc, ok := f.worldcups[id]
	if !ok {
		return nil, repositories.ErrWorldcupNotFound
	}
	cp := *wc
	return &cp, nil
}

func (f *fakeStore) ListItems(_ context.Context, worldcupID string) ([]*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Item(nil), f.items[worldcupID]...), nil
}

func (f *fakeStore) Insert(_ context.Context, _ repositories.SQLExecutor, worldcupID string, v models.VoteRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasItem(worldcupID, v.WinnerID) || (v.LoserID != "" && !f.hasItem(worldcupID, v.LoserID)) {
		return false, repositories.ErrVoteUnknownItem
	}
	if v.IdempotencyKey != "" {
		if f.keys[v.IdempotencyKey] {
			return false, nil
		}
		f.keys[v.IdempotencyKey] = true
	}
	return true, nil
}

func (f *fakeStore) AddResult(_ context.Context, _ repositories.SQLExecutor, _, winnerID, loserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wins[winnerID]++
	if loserID != "" {
		f.losses[loserID]++
	}
	return nil
}

func (f *fakeStore) RecordPlay(_ context.Context, _ repositories.SQLExecutor, _, sessionID, winnerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plays[sessionID]; ok {
		return repositories.ErrPlayAlreadyRecorded
	}
	f.plays[sessionID] = winnerID
	return nil
}

func (f *fakeStore) AddChampionship(_ context.Context, _ repositories.SQLExecutor, worldcupID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasItem(worldcupID, itemID) {
		return repositories.ErrItemNotFound
	}
	f.champs[itemID]++
	return nil
}

func (f *fakeStore) ListItemStatistics(_ context.Context, worldcupID string) ([]models.ItemStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsReads++
	out := make([]models.ItemStatistics, 0, len(f.items[worldcupID]))
	for _, it := range f.items[worldcupID] {
		out = append(out, models.ItemStatistics{
			ItemID: it.ID, Title: it.Title,
			Wins: f.wins[it.ID], Losses: f.losses[it.ID], Championships: f.champs[it.ID],
		})
	}
	return out, nil
}

func (f *fakeStore) CountPlays(_ context.Context, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays), nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.data, k)
		}
	}
	return nil
}

type fakeHub struct {
	mu       sync.Mutex
	messages map[string][]interface{}
}

func (h *fakeHub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.messages == nil {
		h.messages = map[string][]interface{}{}
	}
	h.messages[roomID] = append(h.messages[roomID], message)
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type countingListener struct {
	mu    sync.Mutex
	calls []string
}

func (l *countingListener) StatisticsChanged(_ context.Context, worldcupID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, worldcupID)
}
