package query

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/logger"
)

// ListProductsQuery represents the query behind the product list page
type ListProductsQuery struct {
	Genre        string // Optional: exact, case-sensitive genre
	SearchString string // Optional: case-insensitive title substring
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) (*ProductGenreViewModel, error) {
	all, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := all
	if q.SearchString != "" {
		products = domain.FilterByTitle(products, q.SearchString)
		logger.Info(ctx).Str("search_string", q.SearchString).Msg("Searching by string")
	}
	if q.Genre != "" {
		products = domain.FilterByGenre(products, q.Genre)
		logger.Info(ctx).Str("product_genre", q.Genre).Msg("Searching by genre")
	}

	return NewProductGenreViewModel(products, domain.DistinctGenres(all), q.Genre, q.SearchString), nil
}
