package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/platform/cache"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
)

const (
	gameweeksPath     = "/v1/gameweeks"
	gameweeksCacheKey = "schedule:gameweeks"
	maxResponseBytes  = 1 << 20
)

type ClientConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Circuit  resilience.CircuitBreakerConfig
}

// Client is a gameweek.Clock backed by the remote schedule service. The full
// gameweek list is fetched once per cache window and every lookup is served
// from that snapshot.
type Client struct {
	http    *fasthttp.Client
	url     string
	timeout time.Duration
	cache   *cache.Store[[]gameweek.Gameweek]
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	logger = logger.Named("schedule")
	if cfg.Circuit.OnStateChange == nil {
		cfg.Circuit.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("schedule circuit state changed", "from", string(from), "to", string(to))
		}
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                "fantasy-squad-schedule",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxResponseBodySize: maxResponseBytes,
		},
		url:     strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/") + gameweeksPath,
		timeout: cfg.Timeout,
		cache:   cache.NewStore[[]gameweek.Gameweek](cfg.CacheTTL),
		breaker: resilience.NewCircuitBreaker(cfg.Circuit),
		logger:  logger,
	}
}

func (c *Client) CurrentStatus(ctx context.Context, gameweekID string) (gameweek.Status, error) {
	gw, err := c.find(ctx, gameweekID)
	if err != nil {
		return "", err
	}
	return gw.Status, nil
}

func (c *Client) Deadline(ctx context.Context, gameweekID string) (time.Time, error) {
	gw, err := c.find(ctx, gameweekID)
	if err != nil {
		return time.Time{}, err
	}
	return gw.Deadline, nil
}

func (c *Client) LatestActive(ctx context.Context) (string, error) {
	items, err := c.gameweeks(ctx)
	if err != nil {
		return "", err
	}
	gw, ok := gameweek.SelectLatestActive(items)
	if !ok {
		return "", gameweek.ErrNoActiveGameweek
	}
	return gw.ID, nil
}

// Invalidate drops the cached snapshot so the next lookup refetches.
func (c *Client) Invalidate(ctx context.Context) {
	c.cache.DeletePrefix(ctx, gameweeksCacheKey)
}

func (c *Client) find(ctx context.Context, gameweekID string) (gameweek.Gameweek, error) {
	items, err := c.gameweeks(ctx)
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	for _, gw := range items {
		if gw.ID == gameweekID {
			return gw, nil
		}
	}
	return gameweek.Gameweek{}, fmt.Errorf("%w: %s", gameweek.ErrUnknownGameweek, gameweekID)
}

func (c *Client) gameweeks(ctx context.Context) ([]gameweek.Gameweek, error) {
	return c.cache.GetOrLoad(ctx, gameweeksCacheKey, func(ctx context.Context) ([]gameweek.Gameweek, error) {
		var items []gameweek.Gameweek
		err := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var fetchErr error
			items, fetchErr = c.fetch(ctx)
			return fetchErr
		})
		if err != nil {
			c.logger.WarnContext(ctx, "fetch gameweek schedule failed", "error", err)
			return nil, err
		}
		return items, nil
	})
}

func (c *Client) fetch(ctx context.Context) ([]gameweek.Gameweek, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request gameweek schedule: %w", err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, fmt.Errorf("gameweek schedule failed with status %d", status)
	}

	var decoded scheduleResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("decode gameweek schedule: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(decoded.Data))
	for _, item := range decoded.Data {
		gw := gameweek.Gameweek{
			ID:       strings.TrimSpace(item.ID),
			Number:   item.Number,
			Status:   gameweek.Status(strings.ToLower(strings.TrimSpace(item.Status))),
			Deadline: item.Deadline,
		}
		if err := gw.Validate(); err != nil {
			return nil, fmt.Errorf("invalid gameweek %q in schedule: %w", item.ID, err)
		}
		out = append(out, gw)
	}
	return out, nil
}

type scheduleResponse struct {
	Data []scheduleGameweek `json:"data"`
}

type scheduleGameweek struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Status   string    `json:"status"`
	Deadline time.Time `json:"deadline"`
}
