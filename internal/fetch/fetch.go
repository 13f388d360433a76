// Copyright 2024-2026 The Clockcheck Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fetch retrieves documents from HTTP time sources.
package fetch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Logger logs request traces, satisfied by log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Client fetches documents from a time source. The zero value is
// usable, with certificate validation on and no per request timeout
// beyond the context deadline.
type Client struct {
	// Timeout bounds each request, zero means context deadline only
	Timeout time.Duration
	// Insecure disables TLS certificate validation
	Insecure bool
	// Headers are added to every request
	Headers map[string]string
	// Trace logs requests and responses when Log is set
	Trace bool
	// Log receives trace output
	Log Logger

	hc     *http.Client
	hcOnce sync.Once
}

// the exporter shares one Client across concurrent scrapes so the lazy
// init must be synchronized
func (c *Client) httpClient() *http.Client {
	c.hcOnce.Do(func() {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.Insecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}

		c.hc = &http.Client{
			Timeout:   c.Timeout,
			Transport: transport,
		}
	})

	return c.hc
}

// Fetch retrieves url and returns the response body. Responses other
// than 2xx are errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "clockcheck")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	if c.Trace && c.Log != nil {
		c.Log.Printf(">>> GET %s", url)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if c.Trace && c.Log != nil {
		c.Log.Printf("<<< %s: %s", resp.Status, string(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("time source responded %s", resp.Status)
	}

	return body, nil
}

// FetchText retrieves url as a string.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// FetchJSON retrieves url and unmarshals the JSON body into into.
func (c *Client) FetchJSON(ctx context.Context, url string, into any) error {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return err
	}

	err = json.Unmarshal(body, into)
	if err != nil {
		return fmt.Errorf("invalid time source document: %w", err)
	}

	return nil
}
