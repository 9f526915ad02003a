package recommended

import "github.com/shopspring/decimal"

// Item is a catalog entry ranked by its reviews.
type Item struct {
	ProductID       string              `json:"productId"`
	Name            string              `json:"name"`
	ActualPrice     decimal.Decimal     `json:"actualPrice"`
	DiscountedPrice decimal.NullDecimal `json:"discountedPrice"`
	ImageURL        *string             `json:"imageUrl,omitempty"`
	AverageRating   float64             `json:"averageRating"`
	ReviewCount     int                 `json:"reviewCount"`
}
