package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/phenrril/possync/internal/domain"
)

const categoriesKey = "all"

// CatalogUC browses the remote catalog. Categories and variations are
// served from short lived caches; a miss always falls through to the remote call.
type CatalogUC struct {
	Catalog    domain.CatalogAPI
	Categories domain.Cache[string, []domain.Category]
	Variations domain.Cache[int64, []domain.Variation]
}

func (uc *CatalogUC) List(ctx context.Context, f domain.ProductFilter) (domain.RemotePage[domain.Product], error) {
	if f.PerPage == 0 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	f.Search = strings.TrimSpace(f.Search)
	return uc.Catalog.ListProducts(ctx, f)
}

func (uc *CatalogUC) Get(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}
	return uc.Catalog.GetProduct(ctx, id)
}

func (uc *CatalogUC) BySKU(ctx context.Context, sku string) (domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return domain.Product{}, fmt.Errorf("%w: sku is empty", domain.ErrValidation)
	}
	page, err := uc.Catalog.ListProducts(ctx, domain.ProductFilter{SKU: sku, PerPage: 1})
	if err != nil {
		return domain.Product{}, err
	}
	if len(page.Items) == 0 {
		return domain.Product{}, fmt.Errorf("sku %s: %w", sku, domain.ErrNotFound)
	}
	return page.Items[0], nil
}

func (uc *CatalogUC) ProductVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}
	if uc.Variations != nil {
		if v, ok := uc.Variations.Get(productID); ok {
			return v, nil
		}
	}
	v, err := uc.Catalog.ListVariations(ctx, productID)
	if err != nil {
		return nil, err
	}
	if uc.Variations != nil {
		uc.Variations.Set(productID, v)
	}
	return v, nil
}

func (uc *CatalogUC) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if uc.Categories != nil {
		if c, ok := uc.Categories.Get(categoriesKey); ok {
			return c, nil
		}
	}
	c, err := uc.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if uc.Categories != nil {
		uc.Categories.Set(categoriesKey, c)
	}
	return c, nil
}

// InvalidateCategories drops the cached category list.
func (uc *CatalogUC) InvalidateCategories() {
	if uc.Categories != nil {
		uc.Categories.Delete(categoriesKey)
	}
}
