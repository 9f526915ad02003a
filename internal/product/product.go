package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	ActualPrice      decimal.Decimal     `json:"actualPrice"`
	DiscountedPrice  decimal.NullDecimal `json:"discountedPrice"`
	Material         string              `json:"material"`
	Size             string              `json:"size"`
	CountryOrigin    string              `json:"countryOrigin"`
	CareInstructions string              `json:"careInstructions"`
	ManufacturedBy   string              `json:"manufacturedBy"`
	SKU              string              `json:"sku"`
	Tags             []string            `json:"tags"`
	CategoryID       string              `json:"categoryId"`
	Category         *CategoryRef        `json:"category,omitempty"`
	Images           []Image             `json:"images"`
	Reviews          []Review            `json:"reviews"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// EffectivePrice is the unit price a buyer pays: the discounted price when
// one is set, otherwise the actual price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.Valid {
		return p.DiscountedPrice.Decimal
	}
	return p.ActualPrice
}

type Image struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	ImageURL  string `json:"imageUrl"`
}

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Filter narrows List. Empty fields match everything; Search is a
// case-insensitive substring match on the name.
type Filter struct {
	CategoryID string
	Tag        string
	Search     string
}

// Input is the create payload.
type Input struct {
	Name             string              `json:"name" validate:"required"`
	Description      string              `json:"description"`
	ActualPrice      *decimal.Decimal    `json:"actualPrice" validate:"required"`
	DiscountedPrice  decimal.NullDecimal `json:"discountedPrice"`
	Material         string              `json:"material"`
	Size             string              `json:"size"`
	CountryOrigin    string              `json:"countryOrigin"`
	CareInstructions string              `json:"careInstructions"`
	ManufacturedBy   string              `json:"manufacturedBy"`
	SKU              string              `json:"sku"`
	Tags             []string            `json:"tags"`
	CategoryID       string              `json:"categoryId" validate:"required"`
	ImageURL         []string            `json:"imageUrl" validate:"required,min=1,dive,required"`
}

// OptionalDecimal tells an omitted field apart from an explicit null.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

func (o *OptionalDecimal) UnmarshalJSON(b []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(b)
}

// Patch is the partial update payload. When ImageURL is non-nil the
// product's images are replaced with it. A null discountedPrice clears the
// discount.
type Patch struct {
	Name             *string             `json:"name"`
	Description      *string             `json:"description"`
	ActualPrice      *decimal.Decimal    `json:"actualPrice"`
	DiscountedPrice  OptionalDecimal     `json:"discountedPrice"`
	Material         *string             `json:"material"`
	Size             *string             `json:"size"`
	CountryOrigin    *string             `json:"countryOrigin"`
	CareInstructions *string             `json:"careInstructions"`
	ManufacturedBy   *string             `json:"manufacturedBy"`
	SKU              *string             `json:"sku"`
	Tags             []string            `json:"tags"`
	CategoryID       *string             `json:"categoryId"`
	ImageURL         []string            `json:"imageUrl"`
}

func (in Input) toProduct() Product {
	p := Product{
		Name:             in.Name,
		Description:      in.Description,
		DiscountedPrice:  in.DiscountedPrice,
		Material:         in.Material,
		Size:             in.Size,
		CountryOrigin:    in.CountryOrigin,
		CareInstructions: in.CareInstructions,
		ManufacturedBy:   in.ManufacturedBy,
		SKU:              in.SKU,
		Tags:             in.Tags,
		CategoryID:       in.CategoryID,
	}
	if in.ActualPrice != nil {
		p.ActualPrice = *in.ActualPrice
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Images = make([]Image, 0, len(in.ImageURL))
	for _, url := range in.ImageURL {
		p.Images = append(p.Images, Image{ImageURL: url})
	}
	return p
}

// apply merges the non-nil fields of patch into p.
func (p *Product) apply(patch Patch) {
	setString(&p.Name, patch.Name)
	setString(&p.Description, patch.Description)
	setString(&p.Material, patch.Material)
	setString(&p.Size, patch.Size)
	setString(&p.CountryOrigin, patch.CountryOrigin)
	setString(&p.CareInstructions, patch.CareInstructions)
	setString(&p.ManufacturedBy, patch.ManufacturedBy)
	setString(&p.SKU, patch.SKU)
	setString(&p.CategoryID, patch.CategoryID)
	if patch.ActualPrice != nil {
		p.ActualPrice = *patch.ActualPrice
	}
	if patch.DiscountedPrice.Set {
		p.DiscountedPrice = patch.DiscountedPrice.Value
	}
	if patch.Tags != nil {
		p.Tags = patch.Tags
	}
	if patch.ImageURL != nil {
		p.Images = make([]Image, 0, len(patch.ImageURL))
		for _, url := range patch.ImageURL {
			p.Images = append(p.Images, Image{ProductID: p.ID, ImageURL: url})
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func negative(valid bool, d decimal.Decimal) bool {
	return valid && d.IsNegative()
}
