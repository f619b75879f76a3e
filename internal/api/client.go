// Package api talks to the MAJI backend REST API.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"maji/local-app/internal/apierr"
	"maji/local-app/internal/log"
)

const maxBodySize = 4 << 20

// Options configures a Client
type Options struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	// HTTPClient replaces the default client; Timeout and InsecureSkipVerify
	// are ignored when set.
	HTTPClient *http.Client
}

// Client issues requests against the backend. Every failure goes through
// the shared error normalizer before it is returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	errs       *apierr.Normalizer
	logger     *log.Logger
}

// NewClient creates a new Client
func NewClient(opts Options, errs *apierr.Normalizer, logger *log.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		httpClient = &http.Client{Timeout: opts.Timeout, Transport: transport}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		errs:       errs,
		logger:     logger,
	}
}

// do sends a JSON request and decodes the JSON response into out.
// A context canceled by the caller is returned as is and never reported.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	requestID := uuid.NewString()
	ctx = log.WithRequestID(ctx, requestID)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug(ctx, "Sending request", log.Fields{"method": method, "path": path})
	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			c.logger.Debug(ctx, "Request canceled", log.Fields{"method": method, "path": path})
			return ctxErr
		}
		return c.errs.Handle(ctx, apierr.Failure{Err: err})
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.errs.Handle(ctx, apierr.Failure{Err: err})
	}

	c.logger.Info(ctx, "Request completed", log.Fields{
		"method":   method,
		"path":     path,
		"status":   res.StatusCode,
		"duration": time.Since(start).String(),
	})

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.errs.Handle(ctx, apierr.Failure{
			Status:     res.StatusCode,
			StatusText: statusText(res),
			Body:       data,
		})
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error(ctx, "Failed to decode response", log.Fields{"path": path, "error": err})
		// The body is not what was asked for; report it like any other failure
		return c.errs.Handle(ctx, apierr.Failure{Status: res.StatusCode, StatusText: statusText(res)})
	}
	return nil
}

// statusText returns the reason phrase the server sent, e.g. "Not Found".
func statusText(res *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(res.Status, fmt.Sprint(res.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(res.StatusCode)
}
