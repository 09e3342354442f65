package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/repository"
	"github.com/tair/product-catalog/internal/web"
)

// product builds an unsaved product released on the first of the given "2006-01" month
func product(title, genre, released, price string) domain.Product {
	month, err := time.Parse("2006-01", released)
	if err != nil {
		panic(err)
	}
	return domain.Product{
		Title:       title,
		Genre:       genre,
		ReleaseDate: month,
		Price:       decimal.RequireFromString(price),
	}
}

type testServer struct {
	router  *mux.Router
	repo    domain.ProductRepository
	handler *ProductHandler
}

func newTestServer(t *testing.T, repo domain.ProductRepository) *testServer {
	t.Helper()

	views, err := web.NewRenderer()
	require.NoError(t, err)

	h := NewProductHandler(repo, nil, views, prometheus.NewRegistry())
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	router.NotFoundHandler = views.NotFoundHandler()

	return &testServer{router: router, repo: repo, handler: h}
}

func seededServer(t *testing.T) *testServer {
	return newTestServer(t, repository.NewMemoryProductRepository(
		product("Airplane", "Comedy", "1980-03", "9.99"),
		product("Atonement", "Drama", "1980-11", "12.50"),
		product("Ghostbusters", "Comedy", "1984-06", "8.00"),
	))
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *testServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"Title":       {"When Harry Met Sally"},
		"ReleaseDate": {"1989-02-12"},
		"Genre":       {"Romantic Comedy"},
		"Price":       {"7.99"},
	}
}

func TestIndexListsAllProducts(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Airplane")
	assert.Contains(t, body, "Atonement")
	assert.Contains(t, body, "Ghostbusters")
	assert.Contains(t, body, "$9.99")
	assert.Contains(t, body, `<option value="Comedy">Comedy</option>`)
	assert.Contains(t, body, `<option value="Drama">Drama</option>`)
}

func TestIndexSearchAndGenre(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products?searchString=plane")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Airplane")
	assert.NotContains(t, rec.Body.String(), "Atonement")

	rec = s.get("/products?productGenre=Comedy&searchString=ghost")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ghostbusters")
	assert.NotContains(t, body, "<td>Airplane</td>")
	assert.Contains(t, body, `<option value="Comedy" selected>Comedy</option>`)
	assert.Contains(t, body, `value="ghost"`)
}

func TestIndexGenreIsCaseSensitive(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products?productGenre=comedy")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No products found.")
}

func TestByGenreIgnoresCase(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products/bygenre/comedy")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<td>Airplane</td>")
	assert.Contains(t, body, "<td>Ghostbusters</td>")
	assert.NotContains(t, body, "<td>Atonement</td>")
	// genre selector still offers every genre
	assert.Contains(t, body, `<option value="Drama">Drama</option>`)
}

func TestByReleaseDate(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products/released/1980")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>Airplane</td>")
	assert.Contains(t, rec.Body.String(), "<td>Atonement</td>")
	assert.NotContains(t, rec.Body.String(), "<td>Ghostbusters</td>")

	rec = s.get("/products/released/1980/11")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<td>Airplane</td>")
	assert.Contains(t, rec.Body.String(), "<td>Atonement</td>")
}

func TestByReleaseDateRejectsOutOfRange(t *testing.T) {
	s := seededServer(t)

	for _, path := range []string{
		"/products/released/1899",
		"/products/released/1980/0",
		"/products/released/1980/13",
		"/products/released/abc",
	} {
		rec := s.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestDetails(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products/details/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<dd>Atonement</dd>")
	assert.Contains(t, rec.Body.String(), "<dd>1980-11-01</dd>")
	assert.Contains(t, rec.Body.String(), "<dd>$12.50</dd>")

	rec = s.get("/products/details/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product 99 was not found.")

	rec = s.get("/products/details/0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFormIsEmpty(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products/create")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/products/create"`)
	assert.NotContains(t, body, `name="Id"`)
	assert.NotContains(t, body, "field-validation-error")
}

func TestCreateRedirectsToList(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	s := newTestServer(t, repo)

	rec := s.post("/products/create", validForm())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "When Harry Met Sally", products[0].Title)
	assert.Equal(t, "Romantic Comedy", products[0].Genre)
	assert.True(t, decimal.RequireFromString("7.99").Equal(products[0].Price))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.handler.totalProducts))
}

func TestCreateMissingTitleRerendersForm(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	s := newTestServer(t, repo)

	form := validForm()
	form.Del("Title")
	rec := s.post("/products/create", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Title field is required.")
	// entered values survive the round trip
	assert.Contains(t, body, `value="Romantic Comedy"`)
	assert.Contains(t, body, `value="1989-02-12"`)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateReportsEveryInvalidField(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	s := newTestServer(t, repo)

	rec := s.post("/products/create", url.Values{
		"Title":       {"Up"},
		"ReleaseDate": {"not-a-date"},
		"Genre":       {"comedy"},
		"Price":       {"250"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The value &#39;not-a-date&#39; is not valid for ReleaseDate.")
	assert.Contains(t, body, "must be between 1 and 100.")
	assert.Equal(t, 4, strings.Count(body, "field-validation-error"))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateRejectsHugePriceExponentQuickly(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	s := newTestServer(t, repo)

	for _, price := range []string{"1e10000000", "1e30000000", "5e-30000000"} {
		form := validForm()
		form.Set("Price", price)

		start := time.Now()
		rec := s.post("/products/create", form)
		elapsed := time.Since(start)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, price)
		assert.Contains(t, rec.Body.String(), "The value &#39;"+price+"&#39; is not valid for Price.", price)
		assert.Less(t, elapsed, 500*time.Millisecond, price)
	}

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateRejectsOverlongPrice(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryProductRepository())

	form := validForm()
	form.Set("Price", "1"+strings.Repeat("0", 100))
	rec := s.post("/products/create", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "is not valid for Price.")
}

func TestCreateRejectsFractionsOfACent(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	s := newTestServer(t, repo)

	form := validForm()
	form.Set("Price", "9.999")
	rec := s.post("/products/create", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The field Price must have at most 2 decimal places.")

	form.Set("Price", "9.990")
	rec = s.post("/products/create", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(products[0].Price))
}

func TestCreateZeroReleaseDateIsInvalid(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryProductRepository())

	form := validForm()
	form.Set("ReleaseDate", "0001-01-01")
	rec := s.post("/products/create", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The value &#39;0001-01-01&#39; is not valid for ReleaseDate.")
	assert.NotContains(t, body, "The ReleaseDate field is required.")
}

func TestEditFormPrefilled(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products/edit/1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/products/edit/1"`)
	assert.Contains(t, body, `<input type="hidden" name="Id" value="1">`)
	assert.Contains(t, body, `value="Airplane"`)
	assert.Contains(t, body, `value="1980-03-01"`)
	assert.Contains(t, body, `value="9.99"`)

	assert.Equal(t, http.StatusNotFound, s.get("/products/edit/42").Code)
}

func TestEditUpdatesProduct(t *testing.T) {
	s := seededServer(t)

	form := validForm()
	form.Set("Id", "1")
	rec := s.post("/products/edit/1", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))

	got, err := s.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "When Harry Met Sally", got.Title)
	assert.Equal(t, time.Date(1989, 2, 12, 0, 0, 0, 0, time.UTC), got.ReleaseDate)
}

func TestEditInvalidKeepsProduct(t *testing.T) {
	s := seededServer(t)

	form := validForm()
	form.Set("Id", "1")
	form.Set("Genre", "")
	rec := s.post("/products/edit/1", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Genre field is required.")

	got, err := s.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Airplane", got.Title)
}

func TestEditIDMismatchIsNotFound(t *testing.T) {
	s := seededServer(t)

	form := validForm()
	form.Set("Id", "2")
	rec := s.post("/products/edit/1", form)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	got, err := s.repo.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Atonement", got.Title)
}

func TestEditUnknownProduct(t *testing.T) {
	s := seededServer(t)

	rec := s.post("/products/edit/42", validForm())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteFlow(t *testing.T) {
	s := seededServer(t)

	rec := s.get("/products/delete/3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Are you sure you want to delete this?")
	assert.Contains(t, rec.Body.String(), "<dd>Ghostbusters</dd>")

	rec = s.post("/products/delete/3", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))

	_, err := s.repo.FindByID(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, http.StatusNotFound, s.get("/products/details/3").Code)
	assert.Equal(t, 2.0, testutil.ToFloat64(s.handler.totalProducts))
}

func TestDeleteUnknownProduct(t *testing.T) {
	s := seededServer(t)

	assert.Equal(t, http.StatusNotFound, s.get("/products/delete/42").Code)
	assert.Equal(t, http.StatusNotFound, s.post("/products/delete/42", url.Values{}).Code)

	count, err := s.repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

type brokenRepository struct {
	domain.ProductRepository
}

func (brokenRepository) FindAll(context.Context) ([]domain.Product, error) {
	return nil, &domain.StorageError{Op: "find all", Err: errors.New("connection refused")}
}

func TestStorageErrorRendersServerError(t *testing.T) {
	s := newTestServer(t, brokenRepository{})

	rec := s.get("/products")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "An error occurred while processing your request.")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRequestsAreCounted(t *testing.T) {
	s := seededServer(t)

	s.get("/products")
	s.get("/products")
	s.get("/products/details/99")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.handler.requestCounter.WithLabelValues(http.MethodGet, "/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.handler.requestCounter.WithLabelValues(http.MethodGet, "/products/details/{id}", "404")))
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	s := seededServer(t)
	router := mux.NewRouter()
	s.handler.RegisterHealthCheck(router, stubPinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Catalog service is healthy"}`, rec.Body.String())

	router = mux.NewRouter()
	s.handler.RegisterHealthCheck(router, stubPinger{err: errors.New("down")})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
