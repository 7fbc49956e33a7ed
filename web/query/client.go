// Package query caches API reads for one browser session. Entries go stale
// after a stale time and are dropped from an expirable LRU after a GC time.
// Mutations never retry and invalidate the keys they affect; the next read
// of an invalidated key refetches.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"daily_report_app_go/web/apiclient"
)

const (
	DefaultStaleTime = 60 * time.Second
	DefaultGCTime    = 5 * time.Minute
	DefaultMaxRetry  = 3
	defaultSize      = 256
)

// Key identifies a cached query. Keys form groups by prefix, so
// {"reports"} covers {"reports", "list", ...} and {"reports", "detail", "5"}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether k starts with every element of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// RetryFunc decides whether a failed read is tried again. failureCount is
// the number of retries already made.
type RetryFunc func(failureCount int, err error) bool

// DefaultRetry retries up to DefaultMaxRetry times unless the API answered
// with a client error.
func DefaultRetry(failureCount int, err error) bool {
	if apiclient.IsClientError(err) {
		return false
	}
	return failureCount < DefaultMaxRetry
}

// NoRetry never retries.
func NoRetry(int, error) bool { return false }

// Options tune a single read.
type Options struct {
	StaleTime time.Duration
	Retry     RetryFunc
}

// Option overrides a default for one read.
type Option func(*Options)

func WithStaleTime(d time.Duration) Option {
	return func(o *Options) { o.StaleTime = d }
}

func WithRetry(fn RetryFunc) Option {
	return func(o *Options) { o.Retry = fn }
}

type entry struct {
	key       Key
	value     interface{}
	updatedAt time.Time
	stale     bool
}

// Client is a per-session query cache. It is safe for concurrent use.
type Client struct {
	mu       sync.Mutex
	cache    *expirable.LRU[string, *entry]
	defaults Options

	now        func() time.Time
	retryDelay func(failureCount int) time.Duration
}

// New creates a cache with the default stale time, GC time and retry policy.
func New() *Client {
	return NewWithGC(DefaultGCTime)
}

// NewWithGC creates a cache whose unused entries are dropped after gcTime.
func NewWithGC(gcTime time.Duration) *Client {
	return &Client{
		cache:      expirable.NewLRU[string, *entry](defaultSize, nil, gcTime),
		defaults:   Options{StaleTime: DefaultStaleTime, Retry: DefaultRetry},
		now:        time.Now,
		retryDelay: backoff,
	}
}

// backoff doubles from one second up to thirty.
func backoff(failureCount int) time.Duration {
	d := time.Second << failureCount
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Fetch returns the cached value for key while it is fresh, otherwise runs
// fn (retrying per the retry policy) and caches a successful result.
// Failures are never cached.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	o := c.defaults
	for _, opt := range opts {
		opt(&o)
	}

	if v, ok := c.fresh(key, o.StaleTime); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	var zero T
	for failures := 0; ; failures++ {
		v, err := fn(ctx)
		if err == nil {
			c.SetData(key, v)
			return v, nil
		}
		if ctx.Err() != nil || !o.Retry(failures, err) {
			return zero, err
		}
		zap.L().Debug("retrying query",
			zap.String("key", key.String()),
			zap.Int("failures", failures+1),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(c.retryDelay(failures)):
		}
	}
}

// fresh returns the cached value when it is neither invalidated nor older
// than staleTime. A hit renews the entry's GC deadline.
func (c *Client) fresh(key Key, staleTime time.Duration) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache.Get(key.String())
	if !ok {
		return nil, false
	}
	c.cache.Add(key.String(), e)
	if e.stale || c.now().Sub(e.updatedAt) >= staleTime {
		return nil, false
	}
	return e.value, true
}

// SetData stores v under key as freshly fetched.
func (c *Client) SetData(key Key, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key.String(), &entry{key: key, value: v, updatedAt: c.now()})
}

// Invalidate marks every entry under each prefix stale. Nothing is
// refetched until the entry is read again.
func (c *Client) Invalidate(prefixes ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.cache.Keys() {
		e, ok := c.cache.Peek(k)
		if !ok {
			continue
		}
		for _, p := range prefixes {
			if e.key.HasPrefix(p) {
				e.stale = true
				break
			}
		}
	}
}

// IsStale reports whether key is cached and marked stale. A missing key
// reports false.
func (c *Client) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache.Peek(key.String())
	return ok && e.stale
}

// Has reports whether key is cached, fresh or not.
func (c *Client) Has(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Contains(key.String())
}

// Clear drops every entry.
func (c *Client) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

// Mutate runs fn exactly once. On success the given prefixes are
// invalidated; failures are logged and returned.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), invalidate ...Key) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok {
			zap.L().Warn("mutation failed",
				zap.String("code", apiErr.Code),
				zap.String("message", apiErr.Message),
				zap.Int("status", apiErr.Status),
			)
		}
		return v, err
	}
	c.Invalidate(invalidate...)
	return v, nil
}
