package woocommerce

import (
	"context"
	"net/http"
	"net/url"

	"github.com/phenrril/possync/internal/domain"
)

func (c *Client) ListCoupons(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.Coupon], error) {
	return list[domain.Coupon](ctx, c, "/coupons", listParams(q))
}

func (c *Client) GetCoupon(ctx context.Context, id int64) (domain.Coupon, error) {
	var out domain.Coupon
	_, err := c.do(ctx, http.MethodGet, idPath("/coupons", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateCoupon(ctx context.Context, in domain.Coupon) (domain.Coupon, error) {
	in.ID = 0
	var out domain.Coupon
	_, err := c.do(ctx, http.MethodPost, "/coupons", nil, in, &out)
	return out, err
}

func (c *Client) UpdateCoupon(ctx context.Context, id int64, in domain.Coupon) (domain.Coupon, error) {
	in.ID = 0
	var out domain.Coupon
	_, err := c.do(ctx, http.MethodPut, idPath("/coupons", id), nil, in, &out)
	return out, err
}

// DeleteCoupon deletes permanently; the store API otherwise refuses coupon trashing.
func (c *Client) DeleteCoupon(ctx context.Context, id int64) (domain.Coupon, error) {
	var out domain.Coupon
	_, err := c.do(ctx, http.MethodDelete, idPath("/coupons", id), url.Values{"force": {"true"}}, nil, &out)
	return out, err
}
