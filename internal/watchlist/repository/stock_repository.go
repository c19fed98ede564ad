package repository

import (
	"context"
	"errors"
	"time"

	"golang-stock-watchlist/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockRepository defines the interface for watchlist data operations.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	Save(ctx context.Context, stock *entity.Stock) error
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	FindByCode(ctx context.Context, code string) (*entity.Stock, error)
	FindActive(ctx context.Context) ([]entity.Stock, error)
	Exists(ctx context.Context, id uint) (bool, error)
	SoftDelete(ctx context.Context, id uint) error
	UpdatePrice(ctx context.Context, code string, price, changePercent decimal.Decimal) error
	Count(ctx context.Context) (int64, error)
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// Create inserts a new watchlist entry.
func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// Save persists all fields of an existing watchlist entry.
func (r *stockRepository) Save(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// FindByID retrieves a watchlist entry by its ID. Returns nil when no row exists.
func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// FindByCode retrieves a watchlist entry by its exchange-qualified code,
// active or not. Returns nil when no row exists.
func (r *stockRepository) FindByCode(ctx context.Context, code string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// FindActive retrieves all active watchlist entries.
func (r *stockRepository) FindActive(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Exists reports whether a row with the given ID exists, regardless of its
// active flag.
func (r *stockRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Stock{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SoftDelete flips a watchlist entry to inactive. The row is never removed.
func (r *stockRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}

// UpdatePrice refreshes the price columns of an active entry in a single statement.
func (r *stockRepository) UpdatePrice(ctx context.Context, code string, price, changePercent decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("code = ? AND is_active = ?", code, true).
		Updates(map[string]interface{}{
			"current_price":  price,
			"change_percent": changePercent,
			"updated_at":     time.Now(),
		}).Error
}

// Count returns the total number of watchlist rows, active or not.
func (r *stockRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Stock{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
