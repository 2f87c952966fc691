// Package location resolves address location ids against the metadata
// service.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"demographics/internal/person/models"
	"demographics/pkg/platform/circuit"
)

// ErrUnknownLocation is returned when the metadata service has no entry for
// an id.
var ErrUnknownLocation = errors.New("unknown location")

// ErrUnavailable is returned without calling the metadata service while its
// breaker is open.
var ErrUnavailable = errors.New("location lookup unavailable")

// Entry is the display data of one location.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Cache stores resolved entries. A miss is (Entry{}, false, nil).
type Cache interface {
	Get(ctx context.Context, locationID string) (Entry, bool, error)
	Set(ctx context.Context, entry Entry) error
}

// Client looks up locations over HTTP. Lookups for one address run in
// parallel, identical in-flight lookups are collapsed, and results are
// cached when a Cache is configured.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	logger  *slog.Logger
	breaker *circuit.Breaker
	group   singleflight.Group
}

type Option func(*Client)

func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBreaker stops calling the metadata service after repeated failures.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve fills Name and Code for every reference that carries an id. Any
// failed lookup fails the whole call; the caller decides whether to keep the
// bare ids.
func (c *Client) Resolve(ctx context.Context, loc models.Location) (models.Location, error) {
	g, ctx := errgroup.WithContext(ctx)
	for _, ref := range loc.Refs() {
		if !ref.IsSet() {
			continue
		}
		g.Go(func() error {
			entry, err := c.Lookup(ctx, ref.ID)
			if err != nil {
				return fmt.Errorf("resolve location %s: %w", ref.ID, err)
			}
			ref.Name = entry.Name
			ref.Code = entry.Code
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// Lookup returns one location, consulting the cache first.
func (c *Client) Lookup(ctx context.Context, locationID string) (Entry, error) {
	if c.cache != nil {
		entry, ok, err := c.cache.Get(ctx, locationID)
		if err != nil {
			c.logger.WarnContext(ctx, "location cache read failed", "location_id", locationID, "error", err)
		} else if ok {
			return entry, nil
		}
	}

	v, err, _ := c.group.Do(locationID, func() (any, error) {
		entry, err := c.guardedFetch(ctx, locationID)
		if err != nil {
			return Entry{}, err
		}
		if c.cache != nil {
			if err := c.cache.Set(ctx, entry); err != nil {
				c.logger.WarnContext(ctx, "location cache write failed", "location_id", locationID, "error", err)
			}
		}
		return entry, nil
	})
	if err != nil {
		return Entry{}, err
	}
	return v.(Entry), nil
}

func (c *Client) guardedFetch(ctx context.Context, locationID string) (Entry, error) {
	if c.breaker == nil {
		return c.fetch(ctx, locationID)
	}
	if !c.breaker.Allow() {
		return Entry{}, ErrUnavailable
	}
	entry, err := c.fetch(ctx, locationID)
	// An unknown id is a healthy answer.
	if err != nil && !errors.Is(err, ErrUnknownLocation) {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "location lookups suspended", "breaker", c.breaker.Name(), "error", err)
		}
		return Entry{}, err
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "location lookups resumed", "breaker", c.breaker.Name())
	}
	return entry, err
}

func (c *Client) fetch(ctx context.Context, locationID string) (Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/locations/"+url.PathEscape(locationID), nil)
	if err != nil {
		return Entry{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("call metadata service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Entry{}, ErrUnknownLocation
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Entry{}, fmt.Errorf("metadata service returned %d", resp.StatusCode)
	}

	var entry Entry
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&entry); err != nil {
		return Entry{}, fmt.Errorf("decode location: %w", err)
	}
	if entry.ID == "" {
		entry.ID = locationID
	}
	return entry, nil
}
