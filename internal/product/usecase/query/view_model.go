package query

import "github.com/tair/product-catalog/internal/product/domain"

// ProductGenreViewModel is what the product list page renders
type ProductGenreViewModel struct {
	Products     []domain.Product
	Genres       []string
	ProductGenre string
	SearchString string
}

// NewProductGenreViewModel packages filtered products with the full genre list
func NewProductGenreViewModel(products []domain.Product, genres []string, genre, search string) *ProductGenreViewModel {
	return &ProductGenreViewModel{
		Products:     products,
		Genres:       genres,
		ProductGenre: genre,
		SearchString: search,
	}
}
