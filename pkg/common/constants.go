package common

const (
	RedisKeyStockSearchPrefix = "stock.search:"
)
