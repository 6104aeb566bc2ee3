package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

// DefaultLimit is how many results a search hands back.
const DefaultLimit = 5

// Client relays a search string to the product search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limit      int
}

func NewClient(baseURL string, httpClient *http.Client, limit int) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, limit: limit}
}

type searchResponse struct {
	Result []domain.SearchResult `json:"result"`
}

// BuildURL appends the quote-stripped, escaped query to the base URL. The
// value is safe both as a path segment and after a `?q=` base; spaces
// become %20.
func (c *Client) BuildURL(query string) string {
	query = strings.NewReplacer(`"`, "", "'", "").Replace(query)
	escaped := url.QueryEscape(strings.TrimSpace(query))
	return c.baseURL + strings.ReplaceAll(escaped, "+", "%20")
}

// Search returns at most limit results. A non-success status or a body
// without a result list yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	target := c.BuildURL(query)
	log := observability.LoggerFromContext(ctx).With().Str("api", "search").Str("url", target).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("search request failed")
		observability.CountUpstreamError("search")
		return nil, errors.Wrapf(domain.ErrUpstream, "search: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Msg("error in getting search results")
		observability.CountUpstreamError("search")
		_, _ = io.Copy(io.Discard, resp.Body)
		return []domain.SearchResult{}, nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Msg("search body is not a result object")
		return []domain.SearchResult{}, nil
	}

	results := body.Result
	if len(results) > c.limit {
		results = results[:c.limit]
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	log.Info().Int("results", len(results)).Msg("search relayed")
	return results, nil
}
