package domain

type Coupon struct {
	ID                 int64   `json:"id,omitempty"`
	Code               string  `json:"code" validate:"required"`
	DiscountType       string  `json:"discount_type" validate:"required,oneof=percent fixed_cart fixed_product"`
	Amount             Amount  `json:"amount"`
	Description        string  `json:"description,omitempty"`
	DateExpires        *string `json:"date_expires,omitempty"`
	UsageCount         int     `json:"usage_count,omitempty"`
	IndividualUse      bool    `json:"individual_use"`
	UsageLimit         *int    `json:"usage_limit,omitempty"`
	UsageLimitPerUser  *int    `json:"usage_limit_per_user,omitempty"`
	MinimumAmount      Amount  `json:"minimum_amount"`
	MaximumAmount      Amount  `json:"maximum_amount"`
	FreeShipping       bool    `json:"free_shipping"`
	ProductIDs         []int64 `json:"product_ids,omitempty"`
	ExcludedProductIDs []int64 `json:"excluded_product_ids,omitempty"`
}
