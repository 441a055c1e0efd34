// ABOUTME: HTTP show lookup against the schedule service
// ABOUTME: Caches the current show until it ends or the TTL runs out
package showclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/domain/show"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type HTTPConfig struct {
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
	// FallbackName and FallbackURL describe the show used when the schedule
	// reports nothing on air.
	FallbackName string
	FallbackURL  string
}

type Client struct {
	cfg    HTTPConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	cached    *show.Show
	expiresAt time.Time
}

type showResponse struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	ID        string `json:"id"`
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
}

func NewHTTP(cfg HTTPConfig, logger *zap.Logger) *Client {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

// ShowInfo returns the show on air. Cached results are reused unless force is set.
func (c *Client) ShowInfo(ctx context.Context, force bool) (*show.Show, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !force && c.cached != nil && now.Before(c.expiresAt) {
		return c.cached, nil
	}

	s, err := c.fetch(ctx, now)
	if err != nil {
		return nil, err
	}

	expires := now.Add(c.cfg.CacheTTL)
	if !s.EndTime.IsZero() && s.EndTime.Before(expires) {
		expires = s.EndTime
	}

	c.cached = s
	c.expiresAt = expires
	return s, nil
}

func (c *Client) fetch(ctx context.Context, now time.Time) (*show.Show, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var data showResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if data.Name == "" || data.ID == "" {
		c.logger.Info("no show on air, using fallback", zap.String("show", c.cfg.FallbackName))
		s := show.NewSynthetic(c.cfg.FallbackName, c.cfg.FallbackURL, now.UTC().Add(c.cfg.CacheTTL))
		s.StartTime = now.UTC()
		// Same fallback, same id, so observers see no show change between fetches.
		s.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.cfg.FallbackURL+"#"+c.cfg.FallbackName)).String()
		return s, nil
	}

	start, err := parseTime(data.StartTime, now)
	if err != nil {
		return nil, fmt.Errorf("parse starttime: %w", err)
	}
	end, err := parseTime(data.EndTime, now)
	if err != nil {
		return nil, fmt.Errorf("parse endtime: %w", err)
	}

	return &show.Show{
		Name:      data.Name,
		URL:       data.URL,
		ID:        data.ID,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// parseTime falls back to now for an empty value.
func parseTime(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
