package service

import (
	"context"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/pkg/logger"

	"github.com/shopspring/decimal"
)

// Seeder inserts a handful of sample watchlist rows on first boot.
type Seeder struct {
	stockRepo repository.StockRepository
	logger    *logger.Logger
}

// NewSeeder creates a seeder for the watchlist table.
func NewSeeder(stockRepo repository.StockRepository, log *logger.Logger) *Seeder {
	return &Seeder{stockRepo: stockRepo, logger: log}
}

// Run seeds sample data when the stocks table is empty. It is safe to call on
// every startup.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.stockRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []entity.Stock{
		{
			Code:          "AAPL",
			Symbol:        "AAPL",
			CurrentPrice:  decimal.RequireFromString("150.25"),
			ChangePercent: decimal.RequireFromString("2.5"),
			Strategy:      entity.StrategyWatch,
			TargetPrice:   decimalPtr("160.00"),
			StopLoss:      decimalPtr("145.00"),
			Confidence:    4,
			Notes:         stringPtr("Apple, watching upcoming product launches"),
		},
		{
			Code:          "GOOGL",
			Symbol:        "GOOGL",
			CurrentPrice:  decimal.RequireFromString("2800.50"),
			ChangePercent: decimal.RequireFromString("-1.2"),
			Strategy:      entity.StrategyBuyReady,
			TargetPrice:   decimalPtr("3000.00"),
			StopLoss:      decimalPtr("2700.00"),
			Confidence:    5,
			Notes:         stringPtr("Alphabet, strong AI position"),
		},
		{
			Code:          "TSLA",
			Symbol:        "TSLA",
			CurrentPrice:  decimal.RequireFromString("800.75"),
			ChangePercent: decimal.RequireFromString("5.8"),
			Strategy:      entity.StrategyHolding,
			TargetPrice:   decimalPtr("900.00"),
			StopLoss:      decimalPtr("750.00"),
			Confidence:    3,
			Notes:         stringPtr("Tesla, EV market leader"),
		},
	}

	now := time.Now()
	for i := range samples {
		samples[i].CreatedAt = now
		samples[i].UpdatedAt = now
		samples[i].IsActive = true
		if err := s.stockRepo.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	s.logger.Info("Seeded sample watchlist entries", logger.IntField("count", len(samples)))
	return nil
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func stringPtr(value string) *string {
	return &value
}
