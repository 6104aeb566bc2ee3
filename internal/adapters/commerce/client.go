package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

const (
	orderHistoryPath = "/order/all"
	userProfilePath  = "/auth/user/me"
)

// Client talks to the commerce API that owns orders and user profiles.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ForToken binds the client to one shopper's bearer token.
func (c *Client) ForToken(bearerToken string) domain.OrderHistory {
	return &TokenClient{client: c, bearerToken: bearerToken}
}

// TokenClient implements domain.OrderHistory for a single bearer token.
type TokenClient struct {
	client      *Client
	bearerToken string
}

type orderDoc struct {
	Products []domain.Product `json:"products"`
}

type profileDoc struct {
	Name   string     `json:"name"`
	Gender string     `json:"gender"`
	Age    flexString `json:"age"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// FetchProductHistory flattens the line items of every past order.
func (t *TokenClient) FetchProductHistory(ctx context.Context) ([]domain.Product, error) {
	var orders []orderDoc
	if err := t.get(ctx, orderHistoryPath, &orders); err != nil {
		return nil, errors.Wrap(err, "order history")
	}

	products := []domain.Product{}
	for _, o := range orders {
		products = append(products, o.Products...)
	}
	return products, nil
}

// FetchPersonaDescription renders the shopper profile as a sentence.
func (t *TokenClient) FetchPersonaDescription(ctx context.Context) (string, error) {
	var profile profileDoc
	if err := t.get(ctx, userProfilePath, &profile); err != nil {
		return "", errors.Wrap(err, "user profile")
	}
	return fmt.Sprintf("%s who is a %s of age %s", profile.Name, profile.Gender, profile.Age), nil
}

func (t *TokenClient) get(ctx context.Context, path string, out any) error {
	log := observability.LoggerFromContext(ctx).With().Str("api", "commerce").Str("path", path).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.client.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", t.bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("commerce request failed")
		return errors.Wrapf(domain.ErrUpstream, "GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Error().Int("status", resp.StatusCode).Msg("commerce returned non-success status")
		observability.CountUpstreamError("commerce")
		return errors.Wrapf(domain.ErrUpstream, "GET %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error().Err(err).Msg("commerce returned an undecodable body")
		return errors.Wrapf(domain.ErrUpstream, "GET %s: decode: %v", path, err)
	}
	return nil
}
