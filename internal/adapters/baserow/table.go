package baserow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phenrril/possync/internal/domain"
)

// Table is one table of the row store decoded into T.
type Table[T any] struct {
	c  *Client
	id int64
}

func NewTable[T any](c *Client, tableID int64) *Table[T] {
	return &Table[T]{c: c, id: tableID}
}

func (t *Table[T]) rowsPath() string {
	return fmt.Sprintf("/api/database/rows/table/%d/", t.id)
}

func (t *Table[T]) rowPath(rowID int64) string {
	return fmt.Sprintf("/api/database/rows/table/%d/%d/", t.id, rowID)
}

func (t *Table[T]) List(ctx context.Context, q domain.RowQuery) (domain.RowPage[T], error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for field, value := range q.Filters {
		v.Set("filter__"+field+"__equal", value)
	}
	var page domain.RowPage[T]
	if err := t.c.do(ctx, http.MethodGet, t.rowsPath(), v, nil, &page); err != nil {
		return domain.RowPage[T]{}, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page, nil
}

func (t *Table[T]) Get(ctx context.Context, rowID int64) (T, error) {
	var row T
	err := t.c.do(ctx, http.MethodGet, t.rowPath(rowID), nil, nil, &row)
	return row, err
}

// FindBy returns the first row whose field equals value. The row store drops
// an empty filter and would answer with an arbitrary row, so a blank value is
// rejected before any request.
func (t *Table[T]) FindBy(ctx context.Context, field, value string) (T, error) {
	var zero T
	if strings.TrimSpace(value) == "" {
		return zero, fmt.Errorf("%w: empty value for %s", domain.ErrValidation, field)
	}
	page, err := t.List(ctx, domain.RowQuery{Size: 1, Filters: map[string]string{field: value}})
	if err != nil {
		return zero, err
	}
	if len(page.Results) == 0 {
		return zero, fmt.Errorf("%s %s=%s: %w", service, field, value, domain.ErrNotFound)
	}
	return page.Results[0], nil
}

func (t *Table[T]) Create(ctx context.Context, row T) (T, error) {
	var out T
	err := t.c.do(ctx, http.MethodPost, t.rowsPath(), nil, row, &out)
	return out, err
}

// Update patches only the fields present in patch.
func (t *Table[T]) Update(ctx context.Context, rowID int64, patch any) (T, error) {
	var out T
	err := t.c.do(ctx, http.MethodPatch, t.rowPath(rowID), nil, patch, &out)
	return out, err
}

func (t *Table[T]) Delete(ctx context.Context, rowID int64) error {
	return t.c.do(ctx, http.MethodDelete, t.rowPath(rowID), nil, nil, nil)
}
