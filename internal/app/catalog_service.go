package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PauGgimenez/Practica4/internal/clock"
	"github.com/PauGgimenez/Practica4/internal/domain"
)

type CatalogRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdatePrice(ctx context.Context, productID string, price decimal.Decimal, updatedAt time.Time) error
	AdjustStock(ctx context.Context, productID string, delta int, updatedAt time.Time) error
}

// CatalogService owns product records. Stock and price change only through
// the explicit operations below; the order path never mutates the catalog
// outside its own guarded decrement.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

type CreateProductInput struct {
	Name     string
	Price    decimal.Decimal
	Stock    int
	Category string
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, domain.ErrProductNameRequired
	}
	if in.Price.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if in.Stock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	return s.repo.GetProduct(ctx, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *CatalogService) UpdatePrice(ctx context.Context, productID string, price decimal.Decimal) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	if price.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if err := s.repo.UpdatePrice(ctx, productID, price, s.clock.Now()); err != nil {
		return domain.Product{}, err
	}
	return s.repo.GetProduct(ctx, productID)
}

// AdjustStock applies a relative stock change. Negative deltas are guarded in
// storage so stock never drops below zero.
func (s *CatalogService) AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	if delta == 0 {
		return s.repo.GetProduct(ctx, productID)
	}
	if err := s.repo.AdjustStock(ctx, productID, delta, s.clock.Now()); err != nil {
		return domain.Product{}, err
	}
	return s.repo.GetProduct(ctx, productID)
}
