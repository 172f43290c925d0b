package domain

type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int64  `json:"parent"`
	Count  int    `json:"count"`
}

type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type ProductAttribute struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

type Product struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	SKU           string             `json:"sku"`
	Price         Amount             `json:"price"`
	RegularPrice  Amount             `json:"regular_price"`
	SalePrice     Amount             `json:"sale_price"`
	StockStatus   string             `json:"stock_status"`
	StockQuantity *int               `json:"stock_quantity"`
	Categories    []Category         `json:"categories"`
	Images        []ProductImage     `json:"images"`
	Attributes    []ProductAttribute `json:"attributes"`
	Variations    []int64            `json:"variations"`
	MetaData      MetaList           `json:"meta_data,omitempty"`
}

type Variation struct {
	ID            int64              `json:"id"`
	SKU           string             `json:"sku"`
	Price         Amount             `json:"price"`
	RegularPrice  Amount             `json:"regular_price"`
	SalePrice     Amount             `json:"sale_price"`
	StockStatus   string             `json:"stock_status"`
	StockQuantity *int               `json:"stock_quantity"`
	Attributes    []ProductAttribute `json:"attributes"`
	Image         *ProductImage      `json:"image,omitempty"`
}

type ProductFilter struct {
	Search   string
	Category string
	SKU      string
	Page     int
	PerPage  int
}
