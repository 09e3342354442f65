package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample() []Product {
	return []Product{
		{ID: 1, Title: "Airplane", Genre: "Comedy", ReleaseDate: date(1980, time.July, 2)},
		{ID: 2, Title: "Atonement", Genre: "Drama", ReleaseDate: date(2007, time.September, 7)},
		{ID: 3, Title: "The Plane Truth", Genre: "comedy", ReleaseDate: date(1980, time.March, 14)},
		{ID: 4, Title: "", Genre: "", ReleaseDate: date(1980, time.November, 21)},
		{ID: 5, Title: "Ghostbusters", Genre: "Comedy", ReleaseDate: date(1984, time.June, 8)},
	}
}

func ids(products []Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterByTitleEmptyIsIdentity(t *testing.T) {
	all := sample()
	assert.Equal(t, all, FilterByTitle(all, ""))
}

func TestFilterByTitleMatchesCaseInsensitiveSubstring(t *testing.T) {
	all := sample()
	for _, search := range []string{"plane", "PLANE", "a", "ost", "zzz"} {
		got := FilterByTitle(all, search)
		for _, p := range got {
			assert.Contains(t, strings.ToLower(p.Title), strings.ToLower(search))
		}
		// nothing satisfying the predicate is dropped
		want := 0
		for _, p := range all {
			if strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
				want++
			}
		}
		assert.Len(t, got, want, "search %q", search)
	}
	assert.Equal(t, []uint{1, 3}, ids(FilterByTitle(all, "plane")))
}

func TestFilterByGenreIsCaseSensitive(t *testing.T) {
	all := sample()
	assert.Equal(t, []uint{1, 5}, ids(FilterByGenre(all, "Comedy")))
	assert.Equal(t, []uint{3}, ids(FilterByGenre(all, "comedy")))
	assert.Equal(t, all, FilterByGenre(all, ""))
}

func TestFilterByGenreFoldIgnoresCase(t *testing.T) {
	all := sample()
	assert.Equal(t, []uint{1, 3, 5}, ids(FilterByGenreFold(all, "comedy")))
	assert.Equal(t, []uint{1, 3, 5}, ids(FilterByGenreFold(all, "COMEDY")))
	assert.Empty(t, FilterByGenreFold(all, "Western"))
	assert.Empty(t, FilterByGenreFold(all, ""))
}

func TestFilterByRelease(t *testing.T) {
	all := sample()
	assert.Equal(t, []uint{1, 3, 4}, ids(FilterByRelease(all, 1980, 0)))
	assert.Equal(t, []uint{4}, ids(FilterByRelease(all, 1980, 11)))
	assert.Empty(t, FilterByRelease(all, 1980, 12))
	assert.Empty(t, FilterByRelease(all, 1999, 0))
}

func TestDistinctGenres(t *testing.T) {
	assert.Equal(t, []string{"Comedy", "Drama", "comedy"}, DistinctGenres(sample()))
	assert.Empty(t, DistinctGenres(nil))
}

func TestScenarioAirplaneAtonement(t *testing.T) {
	all := []Product{
		{ID: 1, Genre: "Comedy", Title: "Airplane"},
		{ID: 2, Genre: "Drama", Title: "Atonement"},
	}
	assert.Equal(t, []uint{1}, ids(FilterByTitle(all, "plane")))
	assert.Equal(t, []uint{1}, ids(FilterByGenreFold(all, "comedy")))
	assert.ElementsMatch(t, []string{"Comedy", "Drama"}, DistinctGenres(all))
}
