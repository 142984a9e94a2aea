package domain

import "context"

// Taxonomy is one entry of a catalog classification: category, color type,
// plant type or product type. All four share the same shape and operations;
// each lives in its own collection.
type Taxonomy struct {
	ID       string `json:"_id" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	ImageURL string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

type TaxonomyRepository interface {
	Create(ctx context.Context, t *Taxonomy) error
	GetByID(ctx context.Context, id string) (*Taxonomy, error)
	ListAll(ctx context.Context) ([]Taxonomy, error)
	Update(ctx context.Context, t *Taxonomy) error
	Delete(ctx context.Context, id string) error
}

// Banner is a promotional image shown on the storefront.
type Banner struct {
	ID       string `json:"_id" bson:"_id,omitempty"`
	ImageURL string `json:"imageUrl" bson:"imageUrl"`
	Link     string `json:"link,omitempty" bson:"link,omitempty"`
}

type BannerRepository interface {
	Create(ctx context.Context, b *Banner) error
	ListAll(ctx context.Context) ([]Banner, error)
	Delete(ctx context.Context, id string) error
}
