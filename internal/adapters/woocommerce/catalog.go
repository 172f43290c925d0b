package woocommerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phenrril/possync/internal/domain"
)

const categoriesPerPage = 100

func (c *Client) ListProducts(ctx context.Context, f domain.ProductFilter) (domain.RemotePage[domain.Product], error) {
	q := listParams(domain.ListQuery{Page: f.Page, PerPage: f.PerPage, Search: f.Search})
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.SKU != "" {
		q.Set("sku", f.SKU)
	}
	q.Set("status", "publish")
	return list[domain.Product](ctx, c, "/products", q)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	_, err := c.do(ctx, http.MethodGet, idPath("/products", id), nil, nil, &p)
	return p, err
}

func (c *Client) ListVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	q := url.Values{"per_page": {"100"}}
	p, err := list[domain.Variation](ctx, c, idPath("/products", productID)+"/variations", q)
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// ListCategories walks every page.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var all []domain.Category
	for page := 1; ; page++ {
		q := url.Values{"per_page": {strconv.Itoa(categoriesPerPage)}, "page": {strconv.Itoa(page)}}
		p, err := list[domain.Category](ctx, c, "/products/categories", q)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.TotalPages || len(p.Items) < categoriesPerPage {
			break
		}
	}
	if all == nil {
		all = []domain.Category{}
	}
	return all, nil
}
