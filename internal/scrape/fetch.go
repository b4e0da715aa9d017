package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher returns the rendered HTML of a page. Implementations may go
// through a headless-render service; the pipeline treats the mechanism
// as opaque and any failure as "no data for this page".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// RetryPolicy bounds transient-failure retries per fetch. The original
// behavior was retry-less skip-and-continue; a small bounded retry is a
// deliberate hardening, not a faithfulness requirement.
type RetryPolicy struct {
	Retries int           // additional attempts after the first
	Backoff time.Duration // initial wait, doubled per attempt
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Retries: 2, Backoff: 2 * time.Second}
}

// Client fetches pages over HTTP. When Gateway is set, requests are
// routed through a render service that executes scripts before
// returning the page (GET {gateway}?url={target}); otherwise the target
// is fetched directly.
type Client struct {
	http    *resty.Client
	gateway string
}

func NewClient(gateway string, retry RetryPolicy) *Client {
	c := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "cardbinder/1.0").
		SetRetryCount(retry.Retries).
		SetRetryWaitTime(retry.Backoff).
		SetRetryMaxWaitTime(retry.Backoff * 4)
	return &Client{http: c, gateway: gateway}
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req := c.http.R().SetContext(ctx)

	var resp *resty.Response
	var err error
	if c.gateway != "" {
		resp, err = req.SetQueryParam("url", url).Get(c.gateway)
	} else {
		resp, err = req.Get(url)
	}
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}
