// Package registry talks to the trial registry's XML query API.
package registry

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound is returned by Fetch when the registry has no such trial.
var ErrNotFound = errors.New("registry: trial not found")

const (
	queryPath   = "/api/query/format/default"
	queryLayout = "2006-01-02T15:04:05"
)

// Client queries the registry. Requests are paced by Limiter when it is set.
type Client struct {
	BaseURL  string
	HTTP     Doer
	Limiter  *rate.Limiter
	PageSize int
}

// NewClient builds a client allowing perSecond requests per second.
func NewClient(baseURL string, doer Doer, perSecond float64, pageSize int) *Client {
	var lim *rate.Limiter
	if perSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Client{BaseURL: baseURL, HTTP: doer, Limiter: lim, PageSize: pageSize}
}

// Query returns every trial last edited in [from, to).
func (c *Client) Query(ctx context.Context, from, to time.Time) (*AllTrials, error) {
	q := fmt.Sprintf("LAST_EDITED:[%s TO %s]", from.UTC().Format(queryLayout), to.UTC().Format(queryLayout))
	var out AllTrials
	if err := c.get(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("query %s: %w", q, err)
	}
	return &out, nil
}

// Fetch returns a single trial by its ISRCTN id.
func (c *Client) Fetch(ctx context.Context, id string) (*FullTrial, error) {
	var out AllTrials
	if err := c.get(ctx, "ISRCTN:"+id, &out); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}
	if len(out.FullTrials) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", id, ErrNotFound)
	}
	return &out.FullTrials[0], nil
}

func (c *Client) get(ctx context.Context, query string, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	v := url.Values{}
	v.Set("q", query)
	if c.PageSize > 0 {
		v.Set("limit", fmt.Sprint(c.PageSize))
	}
	u := c.BaseURL + queryPath + "?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/xml")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, u)
	}
	return xml.NewDecoder(resp.Body).Decode(out)
}
