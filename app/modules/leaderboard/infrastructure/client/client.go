// Package leaderboardclient reads the public leaderboard endpoints through
// an HTTP cache.
package leaderboardclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gregjones/httpcache"
	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
)

// Board kinds served under /api/leaderboard.
const (
	BoardOverall = "overall"
	BoardClub    = "club"
	BoardEvent   = "event"
)

// ErrUnknownBoard is returned for a board kind the server does not serve.
var ErrUnknownBoard = errors.New("unknown leaderboard")

// RequestError is returned for a non-2xx response.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("leaderboard request failed (%d): %s", e.StatusCode, e.Message)
}

// Result is a fetched board and whether it was served from the local cache.
type Result struct {
	Board     leaderboarddomain.Board
	FromCache bool
}

// Client fetches leaderboards. Responses are cached in memory for as long
// as the server's Cache-Control allows.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the server at baseURL with an in-memory cache.
func New(baseURL string) *Client {
	return NewWithCache(baseURL, httpcache.NewMemoryCache(), nil)
}

// NewWithCache creates a Client with the given cache. A nil base transport
// uses http.DefaultTransport.
func NewWithCache(baseURL string, cache httpcache.Cache, base http.RoundTripper) *Client {
	transport := httpcache.NewTransport(cache)
	transport.Transport = base
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    transport.Client(),
	}
}

// Board fetches one page of the named board. params carries the filters
// (discipline, category, time_period, since, page, limit, eventName,
// matchNumber, class).
func (c *Client) Board(ctx context.Context, kind string, params url.Values) (*Result, error) {
	switch kind {
	case BoardOverall, BoardClub, BoardEvent:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBoard, kind)
	}

	var res Result
	fromCache, err := c.getJSON(ctx, "/api/leaderboard/"+kind, params, &res.Board)
	if err != nil {
		return nil, err
	}
	res.FromCache = fromCache
	return &res, nil
}

// ShooterStatistics fetches one shooter's statistics.
func (c *Client) ShooterStatistics(ctx context.Context, name string) (*leaderboarddomain.Statistics, error) {
	var stats leaderboarddomain.Statistics
	if _, err := c.getJSON(ctx, "/api/leaderboard/shooters/"+url.PathEscape(name)+"/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build leaderboard request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read leaderboard response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			msg = body.Error
		}
		return false, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode leaderboard response: %w", err)
	}
	return resp.Header.Get(httpcache.XFromCache) == "1", nil
}
