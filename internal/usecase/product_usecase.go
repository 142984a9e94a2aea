package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.TaxonomyRepository
	log          *logrus.Logger
}

func NewProductUseCase(productRepo domain.ProductRepository, categoryRepo domain.TaxonomyRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		log:          logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := uc.validate(ctx, product); err != nil {
		return nil, err
	}

	now := time.Now()
	product.ID = uuid.New().String()
	product.CreatedAt = now
	product.UpdatedAt = now
	normalize(product)

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Infof("Product %s created: %s", product.ID, product.Name)
	return product, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.productRepo.ListAll(ctx)
}

func (uc *productUseCase) ListProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if _, err := uc.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return uc.productRepo.ListByCategory(ctx, categoryID)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	existing, err := uc.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, product); err != nil {
		return nil, err
	}

	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	normalize(product)

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Infof("Product %s updated", product.ID)
	return product, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Infof("Product %s deleted", id)
	return nil
}

func (uc *productUseCase) validate(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return fmt.Errorf("product name is required: %w", domain.ErrValidation)
	}
	if product.Price <= 0 {
		return fmt.Errorf("product price must be positive: %w", domain.ErrValidation)
	}
	if product.OriginalPrice != 0 && product.OriginalPrice < product.Price {
		return fmt.Errorf("original price cannot be below selling price: %w", domain.ErrValidation)
	}
	if product.CategoryID != "" {
		if _, err := uc.categoryRepo.GetByID(ctx, product.CategoryID); err != nil {
			return fmt.Errorf("category %s: %w", product.CategoryID, domain.ErrValidation)
		}
	}
	return nil
}

// normalize derives the discount from the price pair so clients never see a
// stale percentage.
func normalize(product *domain.Product) {
	if product.OriginalPrice > product.Price {
		product.DiscountPercentage = (product.OriginalPrice - product.Price) / product.OriginalPrice * 100
	} else {
		product.DiscountPercentage = 0
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
}
