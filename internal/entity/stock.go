package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategyType is the trading stance attached to a watched stock.
type StrategyType string

const (
	StrategyWatch     StrategyType = "WATCH"
	StrategyBuyReady  StrategyType = "BUY_READY"
	StrategyHolding   StrategyType = "HOLDING"
	StrategySellReady StrategyType = "SELL_READY"
	StrategySold      StrategyType = "SOLD"
)

// Valid reports whether s is one of the known strategy values.
func (s StrategyType) Valid() bool {
	switch s {
	case StrategyWatch, StrategyBuyReady, StrategyHolding, StrategySellReady, StrategySold:
		return true
	}
	return false
}

// Stock is a watchlist entry. Name is resolved from stock_basics at read time
// and never persisted.
type Stock struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Code          string           `gorm:"size:20;not null;uniqueIndex:idx_stocks_code" json:"code"`
	Symbol        string           `gorm:"size:20;not null" json:"symbol"`
	Name          string           `gorm:"-" json:"name,omitempty"`
	CurrentPrice  decimal.Decimal  `gorm:"type:decimal(10,4);not null" json:"current_price"`
	ChangePercent decimal.Decimal  `gorm:"type:decimal(8,4);not null" json:"change_percent"`
	Strategy      StrategyType     `gorm:"size:20;not null;default:WATCH" json:"strategy"`
	TargetPrice   *decimal.Decimal `gorm:"type:decimal(10,4)" json:"target_price"`
	StopLoss      *decimal.Decimal `gorm:"type:decimal(10,4)" json:"stop_loss"`
	Confidence    int              `gorm:"not null;default:3" json:"confidence"`
	Notes         *string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	IsActive      bool             `gorm:"not null;default:true" json:"is_active"`
}

func (Stock) TableName() string {
	return "stocks"
}
