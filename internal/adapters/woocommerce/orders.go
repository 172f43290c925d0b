package woocommerce

import (
	"context"
	"net/http"

	"github.com/phenrril/possync/internal/domain"
)

func (c *Client) ListOrders(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.RemoteOrder], error) {
	return list[domain.RemoteOrder](ctx, c, "/orders", listParams(q))
}

func (c *Client) GetOrder(ctx context.Context, id int64) (domain.RemoteOrder, error) {
	var o domain.RemoteOrder
	_, err := c.do(ctx, http.MethodGet, idPath("/orders", id), nil, nil, &o)
	return o, err
}

func (c *Client) CreateOrder(ctx context.Context, p domain.OrderPayload) (domain.RemoteOrder, error) {
	var o domain.RemoteOrder
	_, err := c.do(ctx, http.MethodPost, "/orders", nil, p, &o)
	return o, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) (domain.RemoteOrder, error) {
	var o domain.RemoteOrder
	_, err := c.do(ctx, http.MethodPut, idPath("/orders", id), nil, map[string]string{"status": status}, &o)
	return o, err
}

func (c *Client) AddOrderNote(ctx context.Context, id int64, note domain.OrderNote) (domain.OrderNote, error) {
	var n domain.OrderNote
	_, err := c.do(ctx, http.MethodPost, idPath("/orders", id)+"/notes", nil, note, &n)
	return n, err
}
