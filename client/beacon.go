package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Dosada05/worldcup/models"
)

// HTTPBeacon is a one-way transmission channel. Send queues the payload and
// returns at once; nobody waits for the collector's answer. Wait gives queued
// sends a bounded grace period before the process exits.
type HTTPBeacon struct {
	client  *Client
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewHTTPBeacon(c *Client, timeout time.Duration, logger *slog.Logger) *HTTPBeacon {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPBeacon{client: c, timeout: timeout, logger: logger}
}

// Send reports false when the beacon can no longer accept payloads.
func (b *HTTPBeacon) Send(payload models.BeaconPayload) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("beacon: failed to encode payload", slog.Any("error", err))
		return false
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		endpoint := b.client.worldcupURL(payload.WorldcupID, "/votes/beacon")
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			b.logger.Error("beacon: failed to create request", slog.Any("error", err))
			return
		}
		// sendBeacon-compatible content type; the collector accepts any.
		req.Header.Set("Content-Type", "text/plain;charset=UTF-8")

		resp, err := b.client.httpClient.Do(req)
		if err != nil {
			b.logger.Warn("beacon: transmission failed", slog.Int("votes", len(payload.Votes)), slog.Any("error", err))
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	return true
}

// Wait stops accepting payloads and waits up to grace for queued sends.
// It reports whether every send finished in time.
func (b *HTTPBeacon) Wait(grace time.Duration) bool {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(grace):
		return false
	}
}
