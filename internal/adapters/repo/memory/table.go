package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/phenrril/possync/internal/domain"
)

// Table is an in-process row table with the same semantics as the row store:
// rows are JSON objects, Update merges only the fields present in the patch,
// and filters compare values exactly.
type Table[T any] struct {
	mu   sync.Mutex
	rows map[int64]map[string]any
	next int64
}

var _ domain.MirrorTable[domain.OrderRecord] = (*Table[domain.OrderRecord])(nil)

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: map[int64]map[string]any{}}
}

func toFields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromFields[T any](m map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(m)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func (t *Table[T]) List(ctx context.Context, q domain.RowQuery) (domain.RowPage[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int64, 0, len(t.rows))
	for id, row := range t.rows {
		if matches(row, q.Filters) && contains(row, q.Search) {
			ids = append(ids, id)
		}
	}
	sortRows(ids, t.rows, q.OrderBy)

	size := q.Size
	if size <= 0 {
		size = 100
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	out := domain.RowPage[T]{Count: len(ids), Results: []T{}}
	start := (page - 1) * size
	if start < len(ids) {
		end := min(start+size, len(ids))
		for _, id := range ids[start:end] {
			row, err := fromFields[T](t.rows[id])
			if err != nil {
				return domain.RowPage[T]{}, err
			}
			out.Results = append(out.Results, row)
		}
		if end < len(ids) {
			out.Next = fmt.Sprintf("page=%d", page+1)
		}
	}
	if page > 1 {
		out.Previous = fmt.Sprintf("page=%d", page-1)
	}
	return out, nil
}

func (t *Table[T]) Get(ctx context.Context, rowID int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[rowID]
	if !ok {
		var zero T
		return zero, fmt.Errorf("row %d: %w", rowID, domain.ErrNotFound)
	}
	return fromFields[T](row)
}

// FindBy rejects a blank value like the row store client does.
func (t *Table[T]) FindBy(ctx context.Context, field, value string) (T, error) {
	if strings.TrimSpace(value) == "" {
		var zero T
		return zero, fmt.Errorf("%w: empty value for %s", domain.ErrValidation, field)
	}
	page, err := t.List(ctx, domain.RowQuery{Size: 1, Filters: map[string]string{field: value}})
	if err != nil {
		var zero T
		return zero, err
	}
	if len(page.Results) == 0 {
		var zero T
		return zero, fmt.Errorf("%s=%s: %w", field, value, domain.ErrNotFound)
	}
	return page.Results[0], nil
}

func (t *Table[T]) Create(ctx context.Context, row T) (T, error) {
	m, err := toFields(row)
	if err != nil {
		var zero T
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	m["id"] = json.Number(fmt.Sprint(t.next))
	t.rows[t.next] = m
	return fromFields[T](m)
}

func (t *Table[T]) Update(ctx context.Context, rowID int64, patch any) (T, error) {
	var zero T
	p, err := toFields(patch)
	if err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[rowID]
	if !ok {
		return zero, fmt.Errorf("row %d: %w", rowID, domain.ErrNotFound)
	}
	for k, v := range p {
		if k == "id" {
			continue
		}
		row[k] = v
	}
	return fromFields[T](row)
}

func (t *Table[T]) Delete(ctx context.Context, rowID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[rowID]; !ok {
		return fmt.Errorf("row %d: %w", rowID, domain.ErrNotFound)
	}
	delete(t.rows, rowID)
	return nil
}

// Len is the number of stored rows.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func matches(row map[string]any, filters map[string]string) bool {
	for field, want := range filters {
		v, ok := row[field]
		if !ok || v == nil || fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

func contains(row map[string]any, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, v := range row {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// sortRows orders by row id unless orderBy names a field ("-field" for descending).
func sortRows(ids []int64, rows map[int64]map[string]any, orderBy string) {
	field := strings.TrimPrefix(orderBy, "-")
	desc := strings.HasPrefix(orderBy, "-")
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if field != "" {
			va, vb := fmt.Sprint(rows[a][field]), fmt.Sprint(rows[b][field])
			if va != vb {
				if desc {
					return va > vb
				}
				return va < vb
			}
		}
		return a < b
	})
}
