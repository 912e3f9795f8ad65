// Package github implements the repository search call against the GitHub
// REST API. It sends one authenticated GET per query and never retries or
// caches.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"ghsearch/internal/domain"
)

const (
	DefaultBaseURL   = "https://api.github.com/"
	AcceptHeader     = "application/vnd.github.v3+json"
	DefaultUserAgent = "ghsearch"

	searchPath = "search/repositories"

	// upper bound on how much of an error body is read
	maxErrorBody = 64 << 10
)

// Options configures a Client. The token is passed in explicitly and is
// opaque to the client: an empty or bad token surfaces as HTTP 401.
type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client // nil uses a client with no timeout
}

// Client searches GitHub repositories
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a search client
func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", opts.BaseURL)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = &headerTransport{
		token:     opts.Token,
		userAgent: userAgent,
		next:      next,
	}

	return &Client{baseURL: base, http: hc}, nil
}

// SearchRepositories runs GET /search/repositories?q=<query> and returns the
// first page of results in server order. Errors are *NetworkError,
// *HTTPStatusError or *DecodeError.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]domain.Repository, error) {
	u := c.searchURL(query)
	log := logrus.WithFields(logrus.Fields{"query": query, "url": u})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	log.Debug("github: sending search request")
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("github: search request failed")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := newHTTPStatusError(resp, u)
		log.WithField("status", resp.StatusCode).WithError(statusErr).Warn("github: search returned error status")
		return nil, statusErr
	}

	repos, err := decodeSearchResponse(resp.Body)
	if err != nil {
		log.WithError(err).Warn("github: failed to decode search response")
		return nil, err
	}

	log.WithField("count", len(repos)).Debug("github: search completed")
	for _, r := range repos {
		log.WithFields(logrus.Fields{"repo": r.FullName, "avatar": r.Owner.AvatarURL}).Trace("github: result")
	}
	return repos, nil
}

func (c *Client) searchURL(query string) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: searchPath})
	u.RawQuery = url.Values{"q": []string{query}}.Encode()
	return u.String()
}

func newHTTPStatusError(resp *http.Response, requestURL string) *HTTPStatusError {
	statusErr := &HTTPStatusError{
		StatusCode: resp.StatusCode,
		RequestURL: requestURL,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return statusErr
	}

	var payload struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if json.Unmarshal(body, &payload) == nil {
		statusErr.Message = payload.Message
		statusErr.DocumentationURL = payload.DocumentationURL
	}
	return statusErr
}

// headerTransport sets the fixed headers on every request
type headerTransport struct {
	token     string
	userAgent string
	next      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "token "+t.token)
	r.Header.Set("Accept", AcceptHeader)
	r.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(r)
}
