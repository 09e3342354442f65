package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/web"
	"github.com/tair/product-catalog/kafka"
)

func TestProvideGormRepositoryMigrates(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo, err := ProvideGormRepository(db)
	require.NoError(t, err)

	p := &domain.Product{
		Title:       "Airplane",
		Genre:       "Comedy",
		ReleaseDate: time.Date(1980, 7, 2, 0, 0, 0, 0, time.UTC),
		Price:       decimal.RequireFromString("9.99"),
	}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.True(t, db.Migrator().HasTable("products"))
}

func TestInitializeHTTPHandler(t *testing.T) {
	views, err := web.NewRenderer()
	require.NoError(t, err)

	repo := ProvideMemoryRepository(domain.Product{
		Title:       "Airplane",
		Genre:       "Comedy",
		ReleaseDate: time.Date(1980, 7, 2, 0, 0, 0, 0, time.UTC),
		Price:       decimal.RequireFromString("9.99"),
	})

	handler, err := InitializeHTTPHandler(repo, kafka.NopPublisher{}, views, prometheus.NewRegistry())
	require.NoError(t, err)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/details/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Airplane")
}
