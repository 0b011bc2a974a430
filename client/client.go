// Package client talks to the vote collector over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dosada05/worldcup/models"
)

const (
	DefaultTimeout = 5 * time.Second
	apiPrefix      = "/api/v1"
	maxErrorBody   = 4096
)

var ErrInvalidBaseURL = errors.New("invalid collector base URL")

// StatusError is returned when the collector answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("collector responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("collector responded with status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) worldcupURL(worldcupID, suffix string) string {
	return c.baseURL + apiPrefix + "/worldcups/" + url.PathEscape(worldcupID) + suffix
}

// GetWorldcup returns the worldcup with its ordered candidate list.
func (c *Client) GetWorldcup(ctx context.Context, worldcupID string) (*models.Worldcup, error) {
	var env struct {
		Worldcup *models.Worldcup `json:"worldcup"`
	}
	if err := c.do(ctx, http.MethodGet, c.worldcupURL(worldcupID, ""), nil, &env); err != nil {
		return nil, fmt.Errorf("get worldcup %s: %w", worldcupID, err)
	}
	if env.Worldcup == nil {
		return nil, fmt.Errorf("get worldcup %s: empty response", worldcupID)
	}
	return env.Worldcup, nil
}

// CreateSession asks the collector for an opaque session token.
func (c *Client) CreateSession(ctx context.Context, worldcupID string) (*models.Session, error) {
	var env struct {
		Session *models.Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, c.worldcupURL(worldcupID, "/sessions"), struct{}{}, &env); err != nil {
		return nil, fmt.Errorf("create session for %s: %w", worldcupID, err)
	}
	if env.Session == nil {
		return nil, fmt.Errorf("create session for %s: empty response", worldcupID)
	}
	return env.Session, nil
}

func (c *Client) SubmitBulk(ctx context.Context, worldcupID string, votes []models.VoteRecord) (models.BulkVoteResult, error) {
	var res models.BulkVoteResult
	err := c.do(ctx, http.MethodPost, c.worldcupURL(worldcupID, "/votes/bulk"), models.BulkVoteRequest{Votes: votes}, &res)
	if err != nil {
		return models.BulkVoteResult{}, fmt.Errorf("bulk vote submission: %w", err)
	}
	return res, nil
}

func (c *Client) SubmitVote(ctx context.Context, worldcupID string, vote models.VoteRecord) error {
	if err := c.do(ctx, http.MethodPost, c.worldcupURL(worldcupID, "/votes"), vote, nil); err != nil {
		return fmt.Errorf("vote submission: %w", err)
	}
	return nil
}

func (c *Client) UpdateStatistics(ctx context.Context, worldcupID string, update models.StatisticsUpdate) error {
	if err := c.do(ctx, http.MethodPost, c.worldcupURL(worldcupID, "/statistics"), update, nil); err != nil {
		return fmt.Errorf("statistics update: %w", err)
	}
	return nil
}

// GetStatistics returns per-item counters used on the results view.
func (c *Client) GetStatistics(ctx context.Context, worldcupID string) (*models.WorldcupStatistics, error) {
	var env struct {
		Statistics *models.WorldcupStatistics `json:"statistics"`
	}
	if err := c.do(ctx, http.MethodGet, c.worldcupURL(worldcupID, "/statistics"), nil, &env); err != nil {
		return nil, fmt.Errorf("get statistics for %s: %w", worldcupID, err)
	}
	if env.Statistics == nil {
		return nil, fmt.Errorf("get statistics for %s: empty response", worldcupID)
	}
	return env.Statistics, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		js, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &StatusError{StatusCode: resp.StatusCode}

	var env struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		if msg, ok := env.Error.(string); ok {
			statusErr.Message = msg
		} else {
			statusErr.Message = fmt.Sprint(env.Error)
		}
	} else {
		statusErr.Message = strings.TrimSpace(string(raw))
	}
	return statusErr
}
