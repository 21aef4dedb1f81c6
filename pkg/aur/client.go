package aur

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Client is the set of AUR queries rah relies on
type Client interface {
	Search(ctx context.Context, query string) ([]Record, error)
	SearchByProvides(ctx context.Context, name string) ([]Record, error)
	Info(ctx context.Context, names []string) ([]Record, error)
}

// SearchField selects what a search query is matched against
type SearchField string

const (
	ByName         SearchField = "name"
	ByNameDesc     SearchField = "name-desc"
	ByMaintainer   SearchField = "maintainer"
	ByDepends      SearchField = "depends"
	ByMakeDepends  SearchField = "makedepends"
	ByOptDepends   SearchField = "optdepends"
	ByCheckDepends SearchField = "checkdepends"
	ByProvides     SearchField = "provides"
	ByConflicts    SearchField = "conflicts"
	ByReplaces     SearchField = "replaces"
	ByKeywords     SearchField = "keywords"
	ByGroups       SearchField = "groups"
)

// Defaults used when Options leaves a field zero
const (
	DefaultBaseURL           = "https://aur.archlinux.org"
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5
	DefaultMaxRetries        = 3
	DefaultBatchSize         = 150
	DefaultRetryInterval     = 250 * time.Millisecond
	DefaultUserAgent         = "rah"
)

// ErrUnreachable is returned once the circuit breaker has opened
var ErrUnreachable = errors.New(errors.ErrNetworkUnreachable, "AUR is unreachable")

// Options configures an RPCClient
type Options struct {
	BaseURL           string
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	RetryInterval     time.Duration
	BatchSize         int
	UserAgent         string
	// FailureThreshold is the number of consecutive failed requests after
	// which the breaker opens. Zero means 5.
	FailureThreshold uint32
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if o.Burst <= 0 {
		o.Burst = DefaultBurst
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = DefaultRetryInterval
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	return o
}

// RPCClient talks to the AUR RPC endpoint over HTTP
type RPCClient struct {
	opts    Options
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewRPCClient creates a client. The returned client is safe for
// concurrent use and shares one connection pool.
func NewRPCClient(opts Options) *RPCClient {
	opts = opts.withDefaults()
	c := &RPCClient{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:  logging.GetLogger("aur"),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "aur-rpc",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.IsErrorCode(err, errors.ErrNetwork)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})
	return c
}

// Search queries packages by name and description
func (c *RPCClient) Search(ctx context.Context, query string) ([]Record, error) {
	return c.SearchBy(ctx, query, ByNameDesc)
}

// SearchByProvides returns the packages declaring name in their provides
// (a package's own name counts as a provision)
func (c *RPCClient) SearchByProvides(ctx context.Context, name string) ([]Record, error) {
	return c.SearchBy(ctx, name, ByProvides)
}

// SearchBy runs a search against the given field
func (c *RPCClient) SearchBy(ctx context.Context, query string, by SearchField) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/rpc/v5/search/%s?by=%s",
		c.opts.BaseURL, url.PathEscape(query), url.QueryEscape(string(by)))
	return c.call(ctx, endpoint)
}

// Info fetches full records for the given names. Requests are split into
// batches of Options.BatchSize; names unknown to the AUR are simply absent
// from the result.
func (c *RPCClient) Info(ctx context.Context, names []string) ([]Record, error) {
	var out []Record
	for start := 0; start < len(names); start += c.opts.BatchSize {
		end := start + c.opts.BatchSize
		if end > len(names) {
			end = len(names)
		}

		params := url.Values{}
		for _, n := range names[start:end] {
			params.Add("arg[]", n)
		}
		records, err := c.call(ctx, c.opts.BaseURL+"/rpc/v5/info?"+params.Encode())
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (c *RPCClient) call(ctx context.Context, endpoint string) ([]Record, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.callWithRetry(ctx, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, ErrUnreachable
		}
		return nil, err
	}
	return res.([]Record), nil
}

func (c *RPCClient) callWithRetry(ctx context.Context, endpoint string) ([]Record, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryInterval
	policy.MaxElapsedTime = 0

	var records []Record
	attempt := 0
	op := func() error {
		attempt++
		var err error
		records, err = c.do(ctx, endpoint)
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Str("url", endpoint).Msg("Retrying AUR request")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.opts.MaxRetries)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), errors.ErrCancelled, "AUR request cancelled")
		}
		return nil, err
	}
	return records, nil
}

// do performs a single request. Errors that must not be retried are
// wrapped with backoff.Permanent.
func (c *RPCClient) do(ctx context.Context, endpoint string) ([]Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, errors.ErrInternal, "cannot build AUR request"))
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Trace().Str("url", endpoint).Msg("AUR request")
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, errors.Wrap(err, errors.ErrNetwork, "AUR request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf(errors.ErrNetwork, "AUR returned %s", resp.Status).
			WithDetail("status", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, backoff.Permanent(errors.Wrapf(err, errors.ErrNetwork, "cannot decode AUR response (%s)", resp.Status))
	}
	if body.Type == "error" || body.Error != "" {
		return nil, backoff.Permanent(errors.Newf(errors.ErrInvalidInput, "AUR rejected the query: %s", body.Error).
			WithDetail("status", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, backoff.Permanent(errors.Newf(errors.ErrNetwork, "AUR returned %s", resp.Status).
			WithDetail("status", resp.StatusCode))
	}
	return body.Results, nil
}
