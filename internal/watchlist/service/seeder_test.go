package service

import (
	"context"
	"testing"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederPopulatesEmptyStore(t *testing.T) {
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	stockRepo := newFakeStockRepo()
	seeder := NewSeeder(stockRepo, log)

	require.NoError(t, seeder.Run(context.Background()))

	count, err := stockRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	apple, err := stockRepo.FindByCode(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, apple)
	assert.True(t, apple.IsActive)
	assert.Equal(t, entity.StrategyWatch, apple.Strategy)
	assert.Equal(t, 4, apple.Confidence)
}

func TestSeederSkipsNonEmptyStore(t *testing.T) {
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	stockRepo := newFakeStockRepo()
	existing := &entity.Stock{Code: "sh.600000", CurrentPrice: decimal.NewFromFloat(1), IsActive: true}
	require.NoError(t, stockRepo.Create(context.Background(), existing))

	seeder := NewSeeder(stockRepo, log)
	require.NoError(t, seeder.Run(context.Background()))

	count, err := stockRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
