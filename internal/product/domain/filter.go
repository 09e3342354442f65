package domain

import "strings"

// FilterByTitle keeps products whose title contains search, ignoring case.
// An empty search returns the input unchanged.
func FilterByTitle(products []Product, search string) []Product {
	if search == "" {
		return products
	}
	needle := strings.ToLower(search)
	return filter(products, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	})
}

// FilterByGenre keeps products whose genre equals genre exactly (case-sensitive).
// An empty genre returns the input unchanged.
func FilterByGenre(products []Product, genre string) []Product {
	if genre == "" {
		return products
	}
	return filter(products, func(p Product) bool {
		return p.Genre == genre
	})
}

// FilterByGenreFold keeps products whose genre equals genre under Unicode case folding.
// Products without a genre never match.
func FilterByGenreFold(products []Product, genre string) []Product {
	return filter(products, func(p Product) bool {
		return p.Genre != "" && strings.EqualFold(p.Genre, genre)
	})
}

// FilterByRelease keeps products released in year and, unless month is 0, in month.
func FilterByRelease(products []Product, year, month int) []Product {
	return filter(products, func(p Product) bool {
		if p.ReleaseDate.Year() != year {
			return false
		}
		return month == 0 || int(p.ReleaseDate.Month()) == month
	})
}

// DistinctGenres lists each non-empty genre once, in first-seen order.
func DistinctGenres(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	genres := make([]string, 0)
	for _, p := range products {
		if p.Genre == "" {
			continue
		}
		if _, ok := seen[p.Genre]; ok {
			continue
		}
		seen[p.Genre] = struct{}{}
		genres = append(genres, p.Genre)
	}
	return genres
}

func filter(products []Product, keep func(Product) bool) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
