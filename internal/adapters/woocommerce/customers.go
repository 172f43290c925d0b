package woocommerce

import (
	"context"
	"net/http"

	"github.com/phenrril/possync/internal/domain"
)

func (c *Client) ListCustomers(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.RemoteCustomer], error) {
	return list[domain.RemoteCustomer](ctx, c, "/customers", listParams(q))
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (domain.RemoteCustomer, error) {
	var out domain.RemoteCustomer
	_, err := c.do(ctx, http.MethodGet, idPath("/customers", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateCustomer(ctx context.Context, in domain.RemoteCustomer) (domain.RemoteCustomer, error) {
	var out domain.RemoteCustomer
	_, err := c.do(ctx, http.MethodPost, "/customers", nil, in, &out)
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in domain.RemoteCustomer) (domain.RemoteCustomer, error) {
	in.ID = 0
	var out domain.RemoteCustomer
	_, err := c.do(ctx, http.MethodPut, idPath("/customers", id), nil, in, &out)
	return out, err
}
