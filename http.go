package main

import (
	"context"
	"net/http"
	"time"
)

// newUpstreamClient returns the client used for outbound card searches.
// A zero timeout leaves the transport defaults in charge.
func newUpstreamClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// HTTPGet performs a plain HTTP GET request bound to ctx.
func HTTPGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return client.Do(req)
}
