package repository

import (
	"context"
	"errors"

	"golang-stock-watchlist/internal/entity"

	"gorm.io/gorm"
)

// StockBasicRepository defines the interface for the reference catalogue.
type StockBasicRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.StockBasic, error)
	Search(ctx context.Context, keyword string, limit int) ([]entity.StockBasic, error)
}

// NewStockBasicRepository creates a new GORM-based reference catalogue repository.
func NewStockBasicRepository(db *gorm.DB) StockBasicRepository {
	return &stockBasicRepository{db: db}
}

type stockBasicRepository struct {
	db *gorm.DB
}

// FindByCode retrieves a reference row by its code. Returns nil when no row exists.
func (r *stockBasicRepository) FindByCode(ctx context.Context, code string) (*entity.StockBasic, error) {
	var basic entity.StockBasic
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&basic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &basic, nil
}

// Search matches by prefix on code and symbol and by substring on name.
func (r *stockBasicRepository) Search(ctx context.Context, keyword string, limit int) ([]entity.StockBasic, error) {
	var results []entity.StockBasic
	err := r.db.WithContext(ctx).
		Where("code LIKE ? OR symbol LIKE ? OR name LIKE ?", keyword+"%", keyword+"%", "%"+keyword+"%").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
