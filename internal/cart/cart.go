package cart

import "github.com/shopspring/decimal"

type Cart struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

// Item is one cart line. UserID is the owner of the cart it sits in.
type Item struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cartId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UserID    string          `json:"-"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	ActualPrice     decimal.Decimal     `json:"actualPrice"`
	DiscountedPrice decimal.NullDecimal `json:"discountedPrice"`
}
