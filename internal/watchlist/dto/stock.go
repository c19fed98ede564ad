package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockRequest is the DTO for submitting a stock to the watchlist.
type CreateStockRequest struct {
	Code          string           `json:"code"`
	Symbol        string           `json:"symbol"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	Strategy      string           `json:"strategy"`
	TargetPrice   *decimal.Decimal `json:"target_price"`
	StopLoss      *decimal.Decimal `json:"stop_loss"`
	Confidence    *int             `json:"confidence"`
	Notes         *string          `json:"notes"`
}

// UpdateStockRequest is the DTO for patching a watchlist entry.
//
// Code, Symbol, CurrentPrice, ChangePercent, Strategy and Confidence are
// sparse: a nil field leaves the stored value unchanged. TargetPrice,
// StopLoss and Notes always overwrite, so sending null clears them.
type UpdateStockRequest struct {
	Code          *string          `json:"code"`
	Symbol        *string          `json:"symbol"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	ChangePercent *decimal.Decimal `json:"change_percent"`
	Strategy      *string          `json:"strategy"`
	Confidence    *int             `json:"confidence"`
	TargetPrice   *decimal.Decimal `json:"target_price"`
	StopLoss      *decimal.Decimal `json:"stop_loss"`
	Notes         *string          `json:"notes"`
}

// StockResponse is the DTO for API responses containing a watchlist entry.
type StockResponse struct {
	ID            uint             `json:"id"`
	Code          string           `json:"code"`
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name,omitempty"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	Strategy      string           `json:"strategy"`
	TargetPrice   *decimal.Decimal `json:"target_price"`
	StopLoss      *decimal.Decimal `json:"stop_loss"`
	Confidence    int              `json:"confidence"`
	Notes         *string          `json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	IsActive      bool             `json:"is_active"`
}

// StockBasicResponse is the DTO for reference-catalogue search results.
type StockBasicResponse struct {
	ID     uint   `json:"id"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}
