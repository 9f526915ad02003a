package wishlist

import "github.com/shopspring/decimal"

type Wishlist struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	Products []ProductSummary `json:"products"`
}

type ProductSummary struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	ActualPrice     decimal.Decimal     `json:"actualPrice"`
	DiscountedPrice decimal.NullDecimal `json:"discountedPrice"`
}
