// Package client scores points against a running escape server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mchmarny/escape/pkg/escape"
	"github.com/pkg/errors"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
	clientAgent      = "escape-client"
	errorBodyLimit   = 1 << 10
)

var reqTransport = &http.Transport{
	MaxIdleConns:          maxIdleConns,
	IdleConnTimeout:       timeoutInSeconds * time.Second,
	DisableCompression:    true,
	ResponseHeaderTimeout: time.Duration(timeoutInSeconds) * time.Second,
}

// Client talks to the HTTP API served by the server command.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL (e.g. http://127.0.0.1:8080).
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid server URL: %s", baseURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Errorf("server URL must be absolute http(s), got: %s", baseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   time.Duration(timeoutInSeconds) * time.Second,
			Transport: reqTransport,
		},
	}, nil
}

// Score asks the server for the escape result of (x, y), optionally saving it.
func (c *Client) Score(ctx context.Context, x, y float64, save bool) (*escape.Result, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatFloat(x, 'g', -1, 64))
	q.Set("y", strconv.FormatFloat(y, 'g', -1, 64))
	if save {
		q.Set("save", "true")
	}

	var r escape.Result
	if err := c.getJSON(ctx, "/score?"+q.Encode(), &r); err != nil {
		return nil, errors.Wrapf(err, "error scoring (%v, %v)", x, y)
	}
	return &r, nil
}

// Health returns nil when the server reports ok.
func (c *Client) Health(ctx context.Context) error {
	var s struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/health", &s); err != nil {
		return errors.Wrap(err, "error checking health")
	}
	if s.Status != "ok" {
		return errors.Errorf("unexpected server status: %s", s.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "error creating HTTP Get request")
	}
	req.Header.Set("User-Agent", clientAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "error executing HTTP Get request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrap(err, "error decoding content")
	}
	return nil
}
