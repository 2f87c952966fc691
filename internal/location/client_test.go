package location

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"demographics/internal/person/models"
	"demographics/pkg/platform/circuit"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func (c *mapCache) Get(_ context.Context, locationID string) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[locationID]
	return e, ok, nil
}

func (c *mapCache) Set(_ context.Context, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.ID] = entry
	return nil
}

type ClientSuite struct {
	suite.Suite
	server *httptest.Server
	calls  atomic.Int32
	cache  *mapCache
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

var directory = map[string]Entry{
	"KE":     {ID: "KE", Name: "Kenya", Code: "KE"},
	"KE-30":  {ID: "KE-30", Name: "Nairobi", Code: "047"},
	"KE-30a": {ID: "KE-30a", Name: "Westlands", Code: "W1"},
}

func (s *ClientSuite) SetupTest() {
	s.calls.Store(0)
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		locationID := strings.TrimPrefix(r.URL.Path, "/locations/")
		if locationID == "flaky" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		entry, ok := directory[locationID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entry)
	}))
	s.cache = &mapCache{entries: make(map[string]Entry)}
	s.client = NewClient(s.server.URL, time.Second,
		WithCache(s.cache),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) TestResolveFillsDisplayValues() {
	loc := models.Location{
		Country: models.LocationRef{ID: "KE"},
		City:    models.LocationRef{ID: "KE-30"},
	}

	got, err := s.client.Resolve(context.Background(), loc)
	s.Require().NoError(err)
	s.Equal("Kenya", got.Country.Name)
	s.Equal("Nairobi", got.City.Name)
	s.Equal("047", got.City.Code)
	s.False(got.State.IsSet(), "unset levels stay empty")
	s.Equal(int32(2), s.calls.Load())
	s.Empty(loc.Country.Name, "input is not mutated")
}

func (s *ClientSuite) TestCachedEntriesSkipTheService() {
	ctx := context.Background()
	_, err := s.client.Lookup(ctx, "KE-30a")
	s.Require().NoError(err)
	_, err = s.client.Lookup(ctx, "KE-30a")
	s.Require().NoError(err)

	s.Equal(int32(1), s.calls.Load())
}

func (s *ClientSuite) TestUnknownLocationFailsResolve() {
	_, err := s.client.Resolve(context.Background(), models.Location{
		Country: models.LocationRef{ID: "KE"},
		County:  models.LocationRef{ID: "nowhere"},
	})
	s.Require().Error(err)
	s.ErrorIs(err, ErrUnknownLocation)
}

func (s *ClientSuite) TestServerErrorIsReported() {
	_, err := s.client.Lookup(context.Background(), "flaky")
	s.Require().Error(err)
	s.Contains(err.Error(), "502")
}

func (s *ClientSuite) TestBreakerSuspendsLookups() {
	ctx := context.Background()
	client := NewClient(s.server.URL, time.Second,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBreaker(circuit.New("location", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))),
	)

	_, err := client.Lookup(ctx, "nowhere")
	s.ErrorIs(err, ErrUnknownLocation)
	for i := 0; i < 2; i++ {
		_, err = client.Lookup(ctx, "flaky")
		s.Require().Error(err)
	}
	s.Equal(int32(3), s.calls.Load())

	_, err = client.Lookup(ctx, "KE")
	s.ErrorIs(err, ErrUnavailable)
	s.Equal(int32(3), s.calls.Load(), "open breaker skips the service")
}
