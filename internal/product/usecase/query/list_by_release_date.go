package query

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
)

// MinReleaseYear is the earliest year the release filter accepts
const MinReleaseYear = 1900

// ListByReleaseDateQuery selects products released in Year, and in Month unless it is 0
type ListByReleaseDateQuery struct {
	Year  int
	Month int
}

// Validate enforces year >= 1900 and month in 0..12
func (q ListByReleaseDateQuery) Validate() error {
	if q.Year < MinReleaseYear {
		return fmt.Errorf("%w: year %d is before %d", domain.ErrInvalidReleaseFilter, q.Year, MinReleaseYear)
	}
	if q.Month < 0 || q.Month > 12 {
		return fmt.Errorf("%w: month %d is outside 1..12", domain.ErrInvalidReleaseFilter, q.Month)
	}
	return nil
}

// ListByReleaseDateHandler handles the release date query
type ListByReleaseDateHandler struct {
	repo domain.ProductRepository
}

// NewListByReleaseDateHandler creates a new release date handler
func NewListByReleaseDateHandler(repo domain.ProductRepository) *ListByReleaseDateHandler {
	return &ListByReleaseDateHandler{repo: repo}
}

// Handle executes the release date query
func (h *ListByReleaseDateHandler) Handle(ctx context.Context, q ListByReleaseDateQuery) (*ProductGenreViewModel, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by release date: %w", err)
	}

	products := domain.FilterByRelease(all, q.Year, q.Month)
	return NewProductGenreViewModel(products, domain.DistinctGenres(all), "", ""), nil
}
