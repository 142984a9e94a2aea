package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

// TaxonomyUseCase serves one classification collection (categories, colors,
// plant types or product types); construct one instance per kind.
type TaxonomyUseCase interface {
	Create(ctx context.Context, name, imageURL string) (*domain.Taxonomy, error)
	GetByID(ctx context.Context, id string) (*domain.Taxonomy, error)
	ListAll(ctx context.Context) ([]domain.Taxonomy, error)
	Update(ctx context.Context, t *domain.Taxonomy) (*domain.Taxonomy, error)
	Delete(ctx context.Context, id string) error
}

type taxonomyUseCase struct {
	repo domain.TaxonomyRepository
	kind string
	log  *logrus.Logger
}

func NewTaxonomyUseCase(repo domain.TaxonomyRepository, kind string, logger *logrus.Logger) TaxonomyUseCase {
	return &taxonomyUseCase{repo: repo, kind: kind, log: logger}
}

func (uc *taxonomyUseCase) Create(ctx context.Context, name, imageURL string) (*domain.Taxonomy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s name is required: %w", uc.kind, domain.ErrValidation)
	}
	t := &domain.Taxonomy{
		ID:       uuid.New().String(),
		Name:     name,
		ImageURL: imageURL,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Infof("%s %s created: %s", uc.kind, t.ID, t.Name)
	return t, nil
}

func (uc *taxonomyUseCase) GetByID(ctx context.Context, id string) (*domain.Taxonomy, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *taxonomyUseCase) ListAll(ctx context.Context) ([]domain.Taxonomy, error) {
	return uc.repo.ListAll(ctx)
}

func (uc *taxonomyUseCase) Update(ctx context.Context, t *domain.Taxonomy) (*domain.Taxonomy, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%s name is required: %w", uc.kind, domain.ErrValidation)
	}
	if _, err := uc.repo.GetByID(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *taxonomyUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Infof("%s %s deleted", uc.kind, id)
	return nil
}

type BannerUseCase interface {
	Create(ctx context.Context, imageURL, link string) (*domain.Banner, error)
	ListAll(ctx context.Context) ([]domain.Banner, error)
	Delete(ctx context.Context, id string) error
}

type bannerUseCase struct {
	repo domain.BannerRepository
	log  *logrus.Logger
}

func NewBannerUseCase(repo domain.BannerRepository, logger *logrus.Logger) BannerUseCase {
	return &bannerUseCase{repo: repo, log: logger}
}

func (uc *bannerUseCase) Create(ctx context.Context, imageURL, link string) (*domain.Banner, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("banner image url is required: %w", domain.ErrValidation)
	}
	b := &domain.Banner{
		ID:       uuid.New().String(),
		ImageURL: imageURL,
		Link:     link,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	uc.log.Infof("Banner %s created", b.ID)
	return b, nil
}

func (uc *bannerUseCase) ListAll(ctx context.Context) ([]domain.Banner, error) {
	return uc.repo.ListAll(ctx)
}

func (uc *bannerUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Infof("Banner %s deleted", id)
	return nil
}
