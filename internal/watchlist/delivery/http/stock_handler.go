package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/internal/watchlist/service"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the watchlist.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllStocks)
	g.POST("", h.CreateStock)
	g.GET("/search", h.SearchStocks)
	g.GET("/test", h.TestConnection)
	g.GET("/:id", h.GetStockByID)
	g.PUT("/:id", h.UpdateStock)
	g.DELETE("/:id", h.DeleteStock)
}

// GetAllStocks godoc
// @Summary List active watchlist entries
// @Description Get all active watchlist entries, enriched with display names
// @Tags stocks
// @Produce  json
// @Success 200 {array} dto.StockResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetAllStocks(c echo.Context) error {
	stocks, err := h.stockService.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// CreateStock godoc
// @Summary Add a stock to the watchlist
// @Description Submit a stock; an existing entry for the same code is reused or reactivated instead of duplicated
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   stock  body    dto.CreateStockRequest   true    "Stock to track"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [post]
func (h *StockHandler) CreateStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	stock, err := h.stockService.Create(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, dto.ErrMissingKey) || errors.Is(err, dto.ErrInvalidStrategy) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to create stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create stock"})
	}

	return c.JSON(http.StatusOK, stock)
}

// GetStockByID godoc
// @Summary Get a watchlist entry by ID
// @Description Get a single active watchlist entry; soft-deleted entries report not found
// @Tags stocks
// @Produce  json
// @Param   id  path    int true    "Stock ID"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id} [get]
func (h *StockHandler) GetStockByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	stock, err := h.stockService.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get stock"})
	}

	return c.JSON(http.StatusOK, stock)
}

// UpdateStock godoc
// @Summary Patch a watchlist entry
// @Description Sparse patch: omitted code/symbol/price/strategy/confidence fields keep their values; target_price, stop_loss and notes always overwrite
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Stock ID"
// @Param   stock  body    dto.UpdateStockRequest   true    "Fields to update"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id} [put]
func (h *StockHandler) UpdateStock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	var req dto.UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	stock, err := h.stockService.Update(c.Request().Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, dto.ErrInvalidStrategy) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to update stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update stock"})
	}

	return c.JSON(http.StatusOK, stock)
}

// DeleteStock godoc
// @Summary Remove a watchlist entry
// @Description Soft-delete an entry; the row is kept and can be reactivated by re-submitting its code
// @Tags stocks
// @Produce  json
// @Param   id  path    int true    "Stock ID"
// @Success 200 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id} [delete]
func (h *StockHandler) DeleteStock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	if err := h.stockService.Delete(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to delete stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete stock"})
	}

	return c.NoContent(http.StatusOK)
}

// SearchStocks godoc
// @Summary Search the reference catalogue
// @Description Match tickers by code/symbol prefix or name substring, top 10 results
// @Tags stocks
// @Produce  json
// @Param   keyword  query    string true    "Search keyword"
// @Success 200 {array} dto.StockBasicResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/search [get]
func (h *StockHandler) SearchStocks(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("keyword"))
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "keyword is required"})
	}

	results, err := h.stockService.Search(c.Request().Context(), keyword)
	if err != nil {
		h.logger.Error("Failed to search stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to search stocks"})
	}

	return c.JSON(http.StatusOK, results)
}

// TestConnection godoc
// @Summary Liveness check
// @Description Returns a plain string with the current server time
// @Tags stocks
// @Produce  plain
// @Success 200 {string} string
// @Router /stocks/test [get]
func (h *StockHandler) TestConnection(c echo.Context) error {
	return c.String(http.StatusOK, fmt.Sprintf("Backend API connection OK, current time: %s", utils.TimeNowCST().Format("2006-01-02 15:04:05")))
}
