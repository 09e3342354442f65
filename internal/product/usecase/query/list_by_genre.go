package query

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
)

// ListByGenreQuery selects products of one genre, ignoring case
type ListByGenreQuery struct {
	Genre string
}

// ListByGenreHandler handles the by-genre query
type ListByGenreHandler struct {
	repo domain.ProductRepository
}

// NewListByGenreHandler creates a new by-genre handler
func NewListByGenreHandler(repo domain.ProductRepository) *ListByGenreHandler {
	return &ListByGenreHandler{repo: repo}
}

// Handle executes the by-genre query
func (h *ListByGenreHandler) Handle(ctx context.Context, q ListByGenreQuery) (*ProductGenreViewModel, error) {
	all, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by genre: %w", err)
	}

	products := domain.FilterByGenreFold(all, q.Genre)
	return NewProductGenreViewModel(products, domain.DistinctGenres(all), q.Genre, ""), nil
}
