package entity

import (
	"gorm.io/datatypes"
)

// StockBasic is a row of the reference catalogue of known tickers.
type StockBasic struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Code    string          `gorm:"size:20;not null;uniqueIndex:idx_stock_basics_code" json:"code"`
	Symbol  string          `gorm:"size:20" json:"symbol"`
	Name    string          `gorm:"size:50" json:"name"`
	IpoDate datatypes.Date  `json:"ipo_date"`
	OutDate *datatypes.Date `json:"out_date"`
	Type    string          `gorm:"size:10" json:"type"`
	Status  string          `gorm:"size:10" json:"status"`
}

func (StockBasic) TableName() string {
	return "stock_basics"
}
