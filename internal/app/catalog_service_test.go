package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PauGgimenez/Practica4/internal/clock"
	"github.com/PauGgimenez/Practica4/internal/domain"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates product", func(t *testing.T) {
		repo := newFakeCatalogRepo()
		svc := NewCatalogService(repo, clock.NewFixed(now))

		product, err := svc.CreateProduct(context.Background(), CreateProductInput{
			Name:     "Monitor",
			Price:    price("199.90"),
			Stock:    10,
			Category: "periféricos",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.ID == "" {
			t.Fatalf("expected ID assigned")
		}
		if !product.CreatedAt.Equal(now) || !product.UpdatedAt.Equal(now) {
			t.Fatalf("expected timestamps set to clock, got %+v", product)
		}
		if _, ok := repo.products[product.ID]; !ok {
			t.Fatalf("expected product persisted")
		}
	})

	t.Run("validation", func(t *testing.T) {
		repo := newFakeCatalogRepo()
		svc := NewCatalogService(repo, clock.NewFixed(now))

		cases := []struct {
			name string
			in   CreateProductInput
			want error
		}{
			{"missing name", CreateProductInput{Price: price("1.00")}, domain.ErrProductNameRequired},
			{"negative price", CreateProductInput{Name: "x", Price: price("-0.01")}, domain.ErrInvalidPrice},
			{"negative stock", CreateProductInput{Name: "x", Price: price("1.00"), Stock: -1}, domain.ErrInvalidStock},
		}
		for _, tc := range cases {
			if _, err := svc.CreateProduct(context.Background(), tc.in); err != tc.want {
				t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
			}
		}
		if len(repo.products) != 0 {
			t.Fatalf("expected nothing persisted")
		}
	})
}

func TestCatalogService_UpdatePrice(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeCatalogRepo()
	repo.products["p1"] = domain.Product{ID: "p1", Name: "Monitor", Price: price("199.90"), Stock: 3}
	svc := NewCatalogService(repo, clock.NewFixed(now))

	product, err := svc.UpdatePrice(context.Background(), "p1", price("149.90"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !product.Price.Equal(price("149.90")) {
		t.Fatalf("expected price 149.90, got %s", product.Price)
	}

	if _, err := svc.UpdatePrice(context.Background(), "p1", price("-1")); err != domain.ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := svc.UpdatePrice(context.Background(), "missing", price("1.00")); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.UpdatePrice(context.Background(), "", price("1.00")); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestCatalogService_AdjustStock(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeCatalogRepo()
	repo.products["p1"] = domain.Product{ID: "p1", Name: "Monitor", Price: price("199.90"), Stock: 3}
	svc := NewCatalogService(repo, clock.NewFixed(now))

	product, err := svc.AdjustStock(context.Background(), "p1", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if product.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", product.Stock)
	}

	product, err = svc.AdjustStock(context.Background(), "p1", -8)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", product.Stock)
	}

	if _, err := svc.AdjustStock(context.Background(), "p1", -1); err != domain.ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	product, err = svc.AdjustStock(context.Background(), "p1", 0)
	if err != nil || product.Stock != 0 {
		t.Fatalf("zero delta should be a read, got %v / %+v", err, product)
	}
}

type fakeCatalogRepo struct {
	products map[string]domain.Product
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{products: make(map[string]domain.Product)}
}

func (f *fakeCatalogRepo) CreateProduct(_ context.Context, product domain.Product) error {
	if _, exists := f.products[product.ID]; exists {
		return domain.ErrProductAlreadyExists
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeCatalogRepo) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdatePrice(_ context.Context, productID string, newPrice decimal.Decimal, updatedAt time.Time) error {
	p, ok := f.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Price = newPrice
	p.UpdatedAt = updatedAt
	f.products[productID] = p
	return nil
}

func (f *fakeCatalogRepo) AdjustStock(_ context.Context, productID string, delta int, updatedAt time.Time) error {
	p, ok := f.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = updatedAt
	f.products[productID] = p
	return nil
}
