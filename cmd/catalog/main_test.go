package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/internal/hello"
	"github.com/tair/product-catalog/internal/product"
	httpDelivery "github.com/tair/product-catalog/internal/product/delivery/http"
	"github.com/tair/product-catalog/internal/web"
	"github.com/tair/product-catalog/kafka"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	views, err := web.NewRenderer()
	require.NoError(t, err)

	handler, err := product.InitializeHTTPHandler(product.ProvideMemoryRepository(), kafka.NopPublisher{}, views, prometheus.NewRegistry())
	require.NoError(t, err)

	cfg := httpDelivery.DefaultMiddlewareConfig(views, []byte("0123456789abcdef0123456789abcdef"))
	return newRouter(handler, hello.NewHandler(views), views, nil, cfg)
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusFound},
		{"/products", http.StatusOK},
		{"/products/create", http.StatusOK},
		{"/hello", http.StatusOK},
		{"/hello/welcome/Rick/2", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/nowhere", http.StatusNotFound},
		{"/products/details/abc", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRootRedirectsToProducts(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "/products", rec.Header().Get("Location"))
}

func TestNewPublisherWithoutBrokers(t *testing.T) {
	publisher, err := newPublisher(nil)
	require.NoError(t, err)

	assert.IsType(t, kafka.NopPublisher{}, publisher)
	assert.NoError(t, publisher.PublishProductEvent(context.Background(), kafka.ProductEvent{}))
	assert.NoError(t, publisher.Close())
}
