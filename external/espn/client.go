package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/platform/resilience"
	"github.com/riskibarqy/league-history/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"
	defaultRateLimit = 2
	maxPayloadBytes  = 16 << 20
)

var leagueViews = []string{"mSettings", "mTeam", "mMatchup", "mMatchupScore", "mStandings"}

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	LeagueID       string
	ESPNS2         string
	SWID           string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	RateLimitRPS   float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads one league's season documents from the ESPN fantasy API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	leagueID   string
	espnS2     string
	swid       string
	retry      resilience.RetryPolicy
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("espn")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = defaultRateLimit
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("espn circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		leagueID:   strings.TrimSpace(cfg.LeagueID),
		espnS2:     strings.TrimSpace(cfg.ESPNS2),
		swid:       strings.TrimSpace(cfg.SWID),
		retry:      resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), Backoff: backoff},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		breaker:    breaker,
	}
}

// FetchSeason retrieves and decodes one season. Failures wrap season.ErrSourceUnavailable.
func (c *Client) FetchSeason(ctx context.Context, year int) (season.Record, error) {
	raw, err := c.FetchRaw(ctx, year)
	if err != nil {
		return season.Record{}, err
	}
	return Decode(raw, year)
}

// FetchRaw returns the undecoded league document for year.
func (c *Client) FetchRaw(ctx context.Context, year int) ([]byte, error) {
	if c.leagueID == "" {
		return nil, fmt.Errorf("%w: espn league id is not configured", season.ErrSourceUnavailable)
	}
	if year <= 0 {
		return nil, fmt.Errorf("%w: invalid season year=%d", season.ErrSourceUnavailable, year)
	}

	raw, err := c.doRequest(ctx, c.leagueURL(year))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch season=%d: %w", season.ErrSourceUnavailable, year, err)
	}
	return raw, nil
}

func (c *Client) leagueURL(year int) string {
	values := url.Values{}
	for _, view := range leagueViews {
		values.Add("view", view)
	}
	return c.baseURL + "/seasons/" + strconv.Itoa(year) + "/segments/0/leagues/" + url.PathEscape(c.leagueID) + "?" + values.Encode()
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: espn is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func(ctx context.Context, attempt int) (bool, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return false, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if cookie := c.cookie(); cookie != "" {
			req.Header.Set("Cookie", cookie)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return true, crerr.Mark(fmt.Errorf("send request: %s", c.sanitize(err.Error())), errESPNTransient)
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			return true, crerr.Mark(fmt.Errorf("read response body: %w", readErr), errESPNTransient)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body = raw
			return false, nil
		}

		statusErr := fmt.Errorf("espn status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
		if isRetryableStatus(resp.StatusCode) {
			c.logger.DebugContext(ctx, "espn request retryable failure", "attempt", attempt, "status", resp.StatusCode)
			return true, crerr.Mark(statusErr, errESPNTransient)
		}
		return false, statusErr
	})
	if err != nil {
		c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return body, nil
}

func (c *Client) cookie() string {
	parts := make([]string, 0, 2)
	if c.espnS2 != "" {
		parts = append(parts, "espn_s2="+c.espnS2)
	}
	if c.swid != "" {
		parts = append(parts, "SWID="+c.swid)
	}
	return strings.Join(parts, "; ")
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	for _, secret := range []string{c.espnS2, c.swid} {
		if secret != "" {
			value = strings.ReplaceAll(value, secret, "REDACTED")
		}
	}
	return value
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errESPNTransient) && !stderrors.Is(err, context.Canceled)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
