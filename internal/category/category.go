package category

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Products  []Product `json:"products"`
}

// Product is the short form of a product listed under its category.
type Product struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	ActualPrice     decimal.Decimal     `json:"actualPrice"`
	DiscountedPrice decimal.NullDecimal `json:"discountedPrice"`
	CategoryID      string              `json:"categoryId"`
}
