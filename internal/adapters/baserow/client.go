package baserow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/phenrril/possync/internal/adapters/httpclient"
)

const service = "baserow"

// Client is the row API of one database. Tables are bound with NewTable.
type Client struct {
	base string
	hc   *retryablehttp.Client
}

func NewClient(baseURL string, hc *retryablehttp.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// TokenTransport authenticates with a database token ("Authorization: Token <key>").
func TokenTransport(token string, base http.RoundTripper) http.RoundTripper {
	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Token"}),
		Base:   base,
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("user_field_names", "true")
	u := c.base + path + "?" + q.Encode()

	var rb interface{}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode %s: %w", service, path, err)
		}
		rb = bytes.NewReader(raw)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rb)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", service, method, path, err)
	}
	return httpclient.Decode(service, res, out)
}
