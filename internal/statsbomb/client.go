// Package statsbomb provides a minimal client for the StatsBomb open-data
// repository, with an optional on-disk cache of the raw JSON documents.
package statsbomb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-scout-metrics/internal/model"
)

// DefaultBaseURL is the raw-content root of the open-data repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

// Options configures a Client. Zero values fall back to sensible defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Cache   *Cache // nil disables caching
	Refresh bool   // skip cache reads, still write fresh documents
	Logger  logrus.FieldLogger
}

// Client fetches competitions, fixture lists and match events.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
	refresh bool
	log     logrus.FieldLogger
}

// NewClient returns a client for the given options.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		cache:   opts.Cache,
		refresh: opts.Refresh,
		log:     log,
	}
}

// fetch reads the document at path (relative to the base URL) and hands it
// to decode. A cached document is used when possible; one that no longer
// decodes is evicted and fetched again. Only documents that decode are
// written to the cache.
func (c *Client) fetch(ctx context.Context, path string, decode func([]byte) error) error {
	if c.cache != nil && !c.refresh {
		data, ok, err := c.cache.Get(path)
		switch {
		case err != nil:
			c.log.WithError(err).WithField("path", path).Warn("cache read failed, refetching")
		case ok:
			derr := decode(data)
			if derr == nil {
				c.log.WithField("path", path).Debug("cache hit")
				return nil
			}
			c.log.WithError(derr).WithField("path", path).Warn("cached document unreadable, refetching")
			if err := c.cache.Delete(path); err != nil {
				c.log.WithError(err).WithField("path", path).Warn("cache evict failed")
			}
		}
	}

	data, err := c.download(ctx, path)
	if err != nil {
		return err
	}
	if err := decode(data); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.Put(path, data); err != nil {
			c.log.WithError(err).WithField("path", path).Warn("cache write failed")
		}
	}
	return nil
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Path: path, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return data, nil
}

// HTTPError reports a non-200 response from the provider.
type HTTPError struct {
	Path       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.StatusCode)
}

// Competitions lists every competition+season published by the provider.
func (c *Client) Competitions(ctx context.Context) ([]model.Competition, error) {
	var comps []model.Competition
	err := c.fetch(ctx, "competitions.json", func(data []byte) (err error) {
		comps, err = DecodeCompetitions(data)
		return err
	})
	return comps, err
}

// Matches lists the fixtures of one competition+season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int) ([]model.MatchInfo, error) {
	var ms []model.MatchInfo
	err := c.fetch(ctx, fmt.Sprintf("matches/%d/%d.json", competitionID, seasonID), func(data []byte) (err error) {
		ms, err = DecodeMatches(competitionID, seasonID, data)
		return err
	})
	return ms, err
}

// Events fetches and decodes one match's event stream. Malformed values are
// returned as issues alongside the events; only a fetch failure or an
// unreadable document is an error.
func (c *Client) Events(ctx context.Context, matchID int) ([]model.Event, []model.Issue, error) {
	var (
		events []model.Event
		issues []model.Issue
	)
	err := c.fetch(ctx, fmt.Sprintf("events/%d.json", matchID), func(data []byte) (err error) {
		events, issues, err = DecodeEvents(matchID, data)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return events, issues, nil
}

// Probe reports how many fixtures a competition+season has. A missing
// listing yields 0 matches and the HTTP error.
func (c *Client) Probe(ctx context.Context, competitionID, seasonID int) (int, error) {
	ms, err := c.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return 0, err
	}
	return len(ms), nil
}
