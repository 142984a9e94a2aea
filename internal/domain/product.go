package domain

import (
	"context"
	"time"
)

type FAQ struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

type Product struct {
	ID                  string    `json:"_id" bson:"_id,omitempty"`
	Name                string    `json:"name" bson:"name"`
	ImageURLs           []string  `json:"imageUrls" bson:"imageUrls"`
	CategoryID          string    `json:"category" bson:"category"`
	Season              string    `json:"season" bson:"season"`
	ColorID             string    `json:"color" bson:"color"`
	ShortDescription    string    `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	Description         string    `json:"description,omitempty" bson:"description,omitempty"`
	Rating              float64   `json:"rating,omitempty" bson:"rating,omitempty"`
	Price               float64   `json:"price" bson:"price"`
	OriginalPrice       float64   `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	DiscountPercentage  float64   `json:"discountPercentage,omitempty" bson:"discountPercentage,omitempty"`
	SizeRanges          []string  `json:"sizeRanges,omitempty" bson:"sizeRanges,omitempty"`
	InStock             bool      `json:"inStock" bson:"inStock"`
	Reviews             int       `json:"reviews,omitempty" bson:"reviews,omitempty"`
	ProductTypeID       string    `json:"productType,omitempty" bson:"productType,omitempty"`
	PlantTypeID         string    `json:"plantType,omitempty" bson:"plantType,omitempty"`
	IsBestseller        bool      `json:"isBestseller,omitempty" bson:"isBestseller,omitempty"`
	IsTrending          bool      `json:"isTrending,omitempty" bson:"isTrending,omitempty"`
	Weight              string    `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions          string    `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	WaterRequirement    string    `json:"waterRequirement,omitempty" bson:"waterRequirement,omitempty"`
	SunlightRequirement string    `json:"sunlightRequirement,omitempty" bson:"sunlightRequirement,omitempty"`
	FAQs                []FAQ     `json:"faqs,omitempty" bson:"faqs,omitempty"`
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
