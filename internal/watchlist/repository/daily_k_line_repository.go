package repository

import (
	"context"
	"errors"

	"golang-stock-watchlist/internal/entity"

	"gorm.io/gorm"
)

// DailyKLineRepository defines read access to the daily bar table.
type DailyKLineRepository interface {
	FindLatestByCode(ctx context.Context, code string) (*entity.DailyKLine, error)
}

// NewDailyKLineRepository creates a new GORM-based daily bar repository.
func NewDailyKLineRepository(db *gorm.DB) DailyKLineRepository {
	return &dailyKLineRepository{db: db}
}

type dailyKLineRepository struct {
	db *gorm.DB
}

// FindLatestByCode retrieves the most recent daily bar for a code.
// Returns nil when the code has no bars.
func (r *dailyKLineRepository) FindLatestByCode(ctx context.Context, code string) (*entity.DailyKLine, error) {
	var kLine entity.DailyKLine
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("trade_date DESC").
		First(&kLine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kLine, nil
}
