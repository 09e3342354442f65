package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/product-catalog/internal/product/domain"
)

func newTestRepository(t *testing.T) *GormProductRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, otherwise every new connection sees a fresh in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewGormProductRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func newProduct(title, genre string, released time.Time, price string) *domain.Product {
	return &domain.Product{
		Title:       title,
		Genre:       genre,
		ReleaseDate: released,
		Price:       decimal.RequireFromString(price),
	}
}

func assertSameProduct(t *testing.T, want, got *domain.Product) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Genre, got.Genre)
	assert.True(t, want.ReleaseDate.Equal(got.ReleaseDate), "release date %s != %s", want.ReleaseDate, got.ReleaseDate)
	assert.True(t, want.Price.Equal(got.Price), "price %s != %s", want.Price, got.Price)
}

func TestCreateThenFindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := newProduct("When Harry Met Sally", "Romantic Comedy", time.Date(1989, 2, 12, 0, 0, 0, 0, time.UTC), "7.99")
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assertSameProduct(t, p, got)
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a := newProduct("Ghostbusters", "Comedy", time.Date(1984, 3, 13, 0, 0, 0, 0, time.UTC), "8.99")
	b := newProduct("Rio Bravo", "Western", time.Date(1959, 4, 15, 0, 0, 0, 0, time.UTC), "3.99")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.NotEqual(t, a.ID, b.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateReplacesFields(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := newProduct("Ghostbusters", "Comedy", time.Date(1984, 3, 13, 0, 0, 0, 0, time.UTC), "8.99")
	require.NoError(t, repo.Create(ctx, p))

	changed := newProduct("Ghostbusters 2", "Comedy", time.Date(1986, 2, 23, 0, 0, 0, 0, time.UTC), "9.99")
	changed.ID = p.ID
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assertSameProduct(t, changed, got)
}

func TestUpdateMissing(t *testing.T) {
	repo := newTestRepository(t)

	p := newProduct("Nobody", "Drama", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), "1.00")
	p.ID = 99
	assert.ErrorIs(t, repo.Update(context.Background(), p), domain.ErrProductNotFound)

	p.ID = 0
	assert.ErrorIs(t, repo.Update(context.Background(), p), domain.ErrProductNotFound)
}

func TestDeleteThenFindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := newProduct("Rio Bravo", "Western", time.Date(1959, 4, 15, 0, 0, 0, 0, time.UTC), "3.99")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	// a second delete fails predictably and leaves the table alone
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrProductNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedDatabaseIsStorageError(t *testing.T) {
	repo := newTestRepository(t)
	sqlDB, err := repo.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindAll(context.Background())
	assert.True(t, domain.IsStorageError(err))

	_, err = repo.FindByID(context.Background(), 1)
	assert.True(t, domain.IsStorageError(err))
}
