package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/phenrril/possync/internal/adapters/httpclient"
	"github.com/phenrril/possync/internal/domain"
)

const (
	service = "woocommerce"
	apiPath = "/wp-json/wc/v3"
)

// Client talks to the store REST API with consumer key/secret basic auth.
type Client struct {
	base   string
	key    string
	secret string
	hc     *retryablehttp.Client
}

var (
	_ domain.OrderAPI    = (*Client)(nil)
	_ domain.CustomerAPI = (*Client)(nil)
	_ domain.CatalogAPI  = (*Client)(nil)
	_ domain.CouponAPI   = (*Client)(nil)
	_ domain.ReportAPI   = (*Client)(nil)
)

func NewClient(baseURL, key, secret string, hc *retryablehttp.Client) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.Contains(base, "/wp-json/") {
		base += apiPath
	}
	return &Client{base: base, key: key, secret: secret, hc: hc}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) (http.Header, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode %s: %w", service, path, err)
		}
		raw = b
	}
	var rb interface{}
	if raw != nil {
		rb = bytes.NewReader(raw)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rb)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: %w", service, method, path, err)
	}
	if err := httpclient.Decode(service, res, out); err != nil {
		return nil, err
	}
	return res.Header, nil
}

func listParams(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.OrderBy != "" {
		v.Set("orderby", q.OrderBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for k, val := range q.Extra {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

func list[T any](ctx context.Context, c *Client, path string, q url.Values) (domain.RemotePage[T], error) {
	var items []T
	h, err := c.do(ctx, http.MethodGet, path, q, nil, &items)
	if err != nil {
		return domain.RemotePage[T]{}, err
	}
	p := domain.RemotePage[T]{Items: items}
	p.Total, _ = strconv.Atoi(h.Get("X-WP-Total"))
	p.TotalPages, _ = strconv.Atoi(h.Get("X-WP-TotalPages"))
	if p.Items == nil {
		p.Items = []T{}
	}
	return p, nil
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
