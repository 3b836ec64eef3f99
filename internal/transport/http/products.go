package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PauGgimenez/Practica4/internal/app"
	"github.com/PauGgimenez/Practica4/internal/domain"
)

// CatalogService is the minimal interface the product endpoints need.
type CatalogService interface {
	CreateProduct(ctx context.Context, in app.CreateProductInput) (domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdatePrice(ctx context.Context, productID string, price decimal.Decimal) (domain.Product, error)
	AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error)
}

// HandleProducts serves POST and GET /admin/products.
func HandleProducts(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req createProductRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			price, err := decimal.NewFromString(req.Price)
			if err != nil {
				writeDomainError(w, domain.ErrInvalidPrice)
				return
			}
			product, err := svc.CreateProduct(r.Context(), app.CreateProductInput{
				Name:     req.Name,
				Price:    price,
				Stock:    req.Stock,
				Category: req.Category,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toProductResponse(product))

		case http.MethodGet:
			products, err := svc.ListProducts(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			out := make([]productResponse, 0, len(products))
			for _, p := range products {
				out = append(out, toProductResponse(p))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(out)

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleProduct serves GET /admin/products/{id} and the POST price and stock
// sub-resources.
func HandleProduct(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, action, ok := parseProductPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			product, err := svc.GetProduct(r.Context(), productID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toProductResponse(product))

		case action == "price" && r.Method == http.MethodPost:
			var req updatePriceRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			price, err := decimal.NewFromString(req.Price)
			if err != nil {
				writeDomainError(w, domain.ErrInvalidPrice)
				return
			}
			product, err := svc.UpdatePrice(r.Context(), productID, price)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toProductResponse(product))

		case action == "stock" && r.Method == http.MethodPost:
			var req adjustStockRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			product, err := svc.AdjustStock(r.Context(), productID, req.Delta)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toProductResponse(product))

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// parseProductPath splits /admin/products/{id} and its price and stock
// sub-resources.
func parseProductPath(path string) (productID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "admin" || parts[1] != "products" || parts[2] == "" {
		return "", "", false
	}
	switch len(parts) {
	case 3:
		return parts[2], "", true
	case 4:
		if parts[3] != "price" && parts[3] != "stock" {
			return "", "", false
		}
		return parts[2], parts[3], true
	}
	return "", "", false
}

type createProductRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
	Category string `json:"category"`
}

type updatePriceRequest struct {
	Price string `json:"price"`
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price.StringFixed(2),
		Stock:     product.Stock,
		Category:  product.Category,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
