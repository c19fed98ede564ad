package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DailyKLine is one trading day's OHLC bar plus derived metrics for a code.
// Rows are unique per (code, trade_date) and consumed read-only.
type DailyKLine struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"size:20;not null;uniqueIndex:idx_code_date" json:"code"`
	Symbol        string          `gorm:"size:20;not null" json:"symbol"`
	TradeDate     datatypes.Date  `gorm:"not null;uniqueIndex:idx_code_date" json:"trade_date"`
	OpenPrice     decimal.Decimal `gorm:"type:decimal(10,4)" json:"open_price"`
	HighPrice     decimal.Decimal `gorm:"type:decimal(10,4)" json:"high_price"`
	LowPrice      decimal.Decimal `gorm:"type:decimal(10,4)" json:"low_price"`
	ClosePrice    decimal.Decimal `gorm:"type:decimal(10,4)" json:"close_price"`
	PreClosePrice decimal.Decimal `gorm:"type:decimal(10,4)" json:"pre_close_price"`
	Volume        int64           `json:"volume"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	TurnoverRate  decimal.Decimal `gorm:"type:decimal(10,4)" json:"turnover_rate"`
	PctChg        decimal.Decimal `gorm:"type:decimal(10,4)" json:"pct_chg"`
	PeTTM         decimal.Decimal `gorm:"column:pe_ttm;type:decimal(10,4)" json:"pe_ttm"`
	PbMRQ         decimal.Decimal `gorm:"column:pb_mrq;type:decimal(10,4)" json:"pb_mrq"`
}

func (DailyKLine) TableName() string {
	return "daily_k_lines"
}
