// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the upstream adapters.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// maxErrorBody bounds how much of a failed response body is quoted in errors.
const maxErrorBody = 512

// NewClient returns a client bounded by cfg.Timeout whose requests carry
// cfg.UserAgent when the request does not set one.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &userAgentTransport{base: http.DefaultTransport, userAgent: cfg.UserAgent},
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// CheckStatus returns nil for 2xx responses. Otherwise it reads up to
// maxErrorBody bytes of the body and returns an error naming the service,
// the status, and the body snippet. The caller still closes the body.
func CheckStatus(resp *http.Response, service string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	snippet := strings.TrimSpace(string(body))
	if snippet == "" {
		return fmt.Errorf("%s returned HTTP %d", service, resp.StatusCode)
	}
	return fmt.Errorf("%s returned HTTP %d: %s", service, resp.StatusCode, snippet)
}
