package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStockService(t *testing.T, stockRepo *fakeStockRepo, basicRepo *fakeStockBasicRepo, kLineRepo *fakeDailyKLineRepo) StockService {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return NewStockService(stockRepo, basicRepo, kLineRepo, NewNameResolver(basicRepo), nil, log, time.Minute, 100)
}

func TestCreateRequiresKey(t *testing.T) {
	svc := newTestStockService(t, newFakeStockRepo(), &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	_, err := svc.Create(context.Background(), &dto.CreateStockRequest{})
	require.ErrorIs(t, err, dto.ErrMissingKey)

	_, err = svc.Create(context.Background(), &dto.CreateStockRequest{Code: "  ", Symbol: " "})
	require.ErrorIs(t, err, dto.ErrMissingKey)
}

func TestCreateDerivesSymbolFromCode(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	resp, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)
	assert.Equal(t, "600000", resp.Symbol)

	stored, err := stockRepo.FindByCode(context.Background(), "sh.600000")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "600000", stored.Symbol)
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestStockService(t, newFakeStockRepo(), &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	resp, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		Code:         "sh.600000",
		CurrentPrice: decimal.NewFromFloat(10.0),
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StrategyWatch), resp.Strategy)
	assert.Equal(t, 3, resp.Confidence)
	assert.True(t, resp.IsActive)
	assert.True(t, resp.CurrentPrice.Equal(decimal.NewFromFloat(10.0)), "got %s", resp.CurrentPrice)
	assert.False(t, resp.CreatedAt.IsZero())
	assert.False(t, resp.UpdatedAt.IsZero())
}

func TestCreateRejectsUnknownStrategy(t *testing.T) {
	svc := newTestStockService(t, newFakeStockRepo(), &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	_, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000", Strategy: "YOLO"})
	require.ErrorIs(t, err, dto.ErrInvalidStrategy)
}

func TestCreatePriceBackfillPrecedence(t *testing.T) {
	kLineRepo := newFakeDailyKLineRepo()
	kLineRepo.bars["sh.600000"] = &entity.DailyKLine{
		Code:       "sh.600000",
		Symbol:     "600000",
		ClosePrice: decimal.NewFromFloat(12.34),
		PctChg:     decimal.NewFromFloat(1.5),
	}
	svc := newTestStockService(t, newFakeStockRepo(), &fakeStockBasicRepo{}, kLineRepo)

	resp, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		Code:          "sh.600000",
		CurrentPrice:  decimal.NewFromFloat(99.0),
		ChangePercent: decimal.NewFromFloat(-3.0),
	})
	require.NoError(t, err)

	assert.True(t, resp.CurrentPrice.Equal(decimal.NewFromFloat(12.34)), "latest bar close must win, got %s", resp.CurrentPrice)
	assert.True(t, resp.ChangePercent.Equal(decimal.NewFromFloat(1.5)), "latest bar pct_chg must win, got %s", resp.ChangePercent)
}

func TestCreateIsIdempotent(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	first, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		Code:         "sh.600000",
		CurrentPrice: decimal.NewFromFloat(10.0),
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		Code:         "sh.600000",
		CurrentPrice: decimal.NewFromFloat(99.0),
		Strategy:     string(entity.StrategyHolding),
		Confidence:   intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, stockRepo.activeCountByCode("sh.600000"))

	// A re-submission refreshes prices from market data only; with no daily
	// bar available the stored entry keeps its values, and caller-supplied
	// strategy and confidence are never applied.
	assert.True(t, second.CurrentPrice.Equal(decimal.NewFromFloat(10.0)), "got %s", second.CurrentPrice)
	assert.Equal(t, string(entity.StrategyWatch), second.Strategy)
	assert.Equal(t, 3, second.Confidence)
}

func TestCreateReactivatesSoftDeleted(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	created, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, dto.ErrNotFound)

	deleted, err := stockRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	deletedAt := deleted.UpdatedAt

	resurrected, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, resurrected.ID)
	assert.True(t, resurrected.IsActive)
	assert.False(t, resurrected.UpdatedAt.Before(deletedAt))

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func TestCreateResolvesDuplicateInsertRace(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	// A competing request inserts the same code between our existence check
	// and our insert.
	var racedID uint
	stockRepo.beforeCreate = func() {
		competitor := &entity.Stock{
			Code:          "sh.600000",
			Symbol:        "600000",
			CurrentPrice:  decimal.NewFromFloat(10.0),
			ChangePercent: decimal.Zero,
			Strategy:      entity.StrategyWatch,
			Confidence:    3,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
			IsActive:      true,
		}
		require.NoError(t, stockRepo.Create(context.Background(), competitor))
		racedID = competitor.ID
	}

	resp, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)

	assert.Equal(t, racedID, resp.ID)
	assert.Equal(t, 1, stockRepo.activeCountByCode("sh.600000"))
}

func TestCreateAttachesDisplayName(t *testing.T) {
	basicRepo := &fakeStockBasicRepo{rows: []entity.StockBasic{
		{Code: "sh.600000", Symbol: "600000", Name: "SPD Bank"},
	}}
	svc := newTestStockService(t, newFakeStockRepo(), basicRepo, newFakeDailyKLineRepo())

	resp, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)
	assert.Equal(t, "SPD Bank", resp.Name)

	unknown, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sz.000001"})
	require.NoError(t, err)
	assert.Empty(t, unknown.Name)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestStockService(t, newFakeStockRepo(), &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	_, err := svc.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, dto.ErrNotFound)
}

func TestUpdateSparseAndOverwriteFields(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	created, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		Code:         "sh.600000",
		CurrentPrice: decimal.NewFromFloat(10.0),
		TargetPrice:  decimalPtr("12.00"),
		StopLoss:     decimalPtr("9.00"),
		Notes:        stringPtr("initial note"),
	})
	require.NoError(t, err)

	// Patch only confidence. The sparse fields keep their values; target
	// price, stop loss and notes always take the patch value, so an absent
	// field clears them.
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateStockRequest{
		Confidence: intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Confidence)
	assert.Equal(t, "sh.600000", updated.Code)
	assert.True(t, updated.CurrentPrice.Equal(decimal.NewFromFloat(10.0)))
	assert.Equal(t, string(entity.StrategyWatch), updated.Strategy)
	assert.Nil(t, updated.TargetPrice)
	assert.Nil(t, updated.StopLoss)
	assert.Nil(t, updated.Notes)

	// A full patch applies every field.
	updated, err = svc.Update(context.Background(), created.ID, &dto.UpdateStockRequest{
		CurrentPrice:  decimalPtr("11.50"),
		ChangePercent: decimalPtr("2.0"),
		Strategy:      stringPtr(string(entity.StrategyBuyReady)),
		TargetPrice:   decimalPtr("15.00"),
		StopLoss:      decimalPtr("10.00"),
		Notes:         stringPtr("breakout setup"),
	})
	require.NoError(t, err)

	assert.True(t, updated.CurrentPrice.Equal(decimal.RequireFromString("11.50")))
	assert.Equal(t, string(entity.StrategyBuyReady), updated.Strategy)
	require.NotNil(t, updated.TargetPrice)
	assert.True(t, updated.TargetPrice.Equal(decimal.RequireFromString("15.00")))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "breakout setup", *updated.Notes)
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	created, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)

	// Backdate the stored row so the refresh is observable.
	stored, err := stockRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	stored.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, stockRepo.Save(context.Background(), stored))

	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateStockRequest{Confidence: intPtr(4)})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(stored.UpdatedAt))
}

func TestUpdateRejectsInactiveOrMissing(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	_, err := svc.Update(context.Background(), 42, &dto.UpdateStockRequest{})
	require.ErrorIs(t, err, dto.ErrNotFound)

	created, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Update(context.Background(), created.ID, &dto.UpdateStockRequest{Confidence: intPtr(1)})
	require.ErrorIs(t, err, dto.ErrNotFound)
}

func TestDeleteUnknownID(t *testing.T) {
	svc := newTestStockService(t, newFakeStockRepo(), &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	err := svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, dto.ErrNotFound)
}

func TestDeleteHidesEntryFromReads(t *testing.T) {
	stockRepo := newFakeStockRepo()
	svc := newTestStockService(t, stockRepo, &fakeStockBasicRepo{}, newFakeDailyKLineRepo())

	created, err := svc.Create(context.Background(), &dto.CreateStockRequest{Code: "sh.600000"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, dto.ErrNotFound)

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	// The row itself is preserved.
	stored, err := stockRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)
}

func TestSearchLimitsResults(t *testing.T) {
	basicRepo := &fakeStockBasicRepo{}
	for i := 0; i < 15; i++ {
		basicRepo.rows = append(basicRepo.rows, entity.StockBasic{
			ID:     uint(i + 1),
			Code:   fmt.Sprintf("sh.6000%02d", i),
			Symbol: fmt.Sprintf("6000%02d", i),
			Name:   fmt.Sprintf("Company %02d", i),
		})
	}
	svc := newTestStockService(t, newFakeStockRepo(), basicRepo, newFakeDailyKLineRepo())

	results, err := svc.Search(context.Background(), "sh.6000")
	require.NoError(t, err)
	assert.Len(t, results, 10)
	assert.Equal(t, "sh.600000", results[0].Code)
}

func TestNameResolverCachesLookups(t *testing.T) {
	basicRepo := &fakeStockBasicRepo{rows: []entity.StockBasic{
		{Code: "sh.600000", Name: "SPD Bank"},
	}}
	resolver := NewNameResolver(basicRepo)

	require.Equal(t, "SPD Bank", resolver.Resolve(context.Background(), "sh.600000"))
	require.Equal(t, "SPD Bank", resolver.Resolve(context.Background(), "sh.600000"))
	assert.Equal(t, 1, basicRepo.findCalls)
}

func intPtr(v int) *int {
	return &v
}
