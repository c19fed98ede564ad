package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/pkg/common"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const searchResultLimit = 10

// StockService defines the interface for managing the watchlist.
type StockService interface {
	Create(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error)
	GetAll(ctx context.Context) ([]*dto.StockResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.StockResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateStockRequest) (*dto.StockResponse, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, keyword string) ([]dto.StockBasicResponse, error)
}

// NewStockService creates a new watchlist service. The Redis client is
// optional; without it search results are simply not cached.
func NewStockService(
	stockRepo repository.StockRepository,
	basicRepo repository.StockBasicRepository,
	kLineRepo repository.DailyKLineRepository,
	nameResolver *NameResolver,
	redisClient *redis.Client,
	log *logger.Logger,
	searchCacheTTL time.Duration,
	searchMaxPerSecond int,
) StockService {
	if searchMaxPerSecond <= 0 {
		searchMaxPerSecond = 10
	}
	return &stockService{
		stockRepo:      stockRepo,
		basicRepo:      basicRepo,
		kLineRepo:      kLineRepo,
		nameResolver:   nameResolver,
		redisClient:    redisClient,
		logger:         log,
		searchCacheTTL: searchCacheTTL,
		searchLimiter:  rate.NewLimiter(rate.Limit(searchMaxPerSecond), searchMaxPerSecond),
	}
}

type stockService struct {
	stockRepo      repository.StockRepository
	basicRepo      repository.StockBasicRepository
	kLineRepo      repository.DailyKLineRepository
	nameResolver   *NameResolver
	redisClient    *redis.Client
	logger         *logger.Logger
	searchCacheTTL time.Duration
	searchLimiter  *rate.Limiter
}

// Create reconciles a watchlist submission: it inserts a new entry, refreshes
// an existing active one, or reactivates a soft-deleted one. Two submissions
// for the same code always resolve to the same row.
func (s *stockService) Create(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error) {
	code := strings.TrimSpace(req.Code)
	symbol := strings.TrimSpace(req.Symbol)
	if code == "" && symbol == "" {
		return nil, dto.ErrMissingKey
	}
	if symbol == "" && strings.Contains(code, ".") {
		symbol = utils.SymbolFromCode(code)
	}
	if code == "" {
		// Bare submissions are keyed by their symbol.
		code = symbol
	}

	strategy := entity.StrategyWatch
	if req.Strategy != "" {
		strategy = entity.StrategyType(req.Strategy)
		if !strategy.Valid() {
			return nil, dto.ErrInvalidStrategy
		}
	}

	existing, err := s.stockRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// Latest market data always wins over caller-supplied price fields.
	latest, err := s.kLineRepo.FindLatestByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return s.refreshExisting(ctx, existing, latest)
	}

	now := time.Now()
	stock := &entity.Stock{
		Code:          code,
		Symbol:        symbol,
		CurrentPrice:  req.CurrentPrice,
		ChangePercent: req.ChangePercent,
		Strategy:      strategy,
		TargetPrice:   req.TargetPrice,
		StopLoss:      req.StopLoss,
		Confidence:    3,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
		IsActive:      true,
	}
	if req.Confidence != nil {
		stock.Confidence = *req.Confidence
	}
	if latest != nil {
		stock.CurrentPrice = latest.ClosePrice
		stock.ChangePercent = latest.PctChg
	}

	if err := s.stockRepo.Create(ctx, stock); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent submission won the insert; re-resolve by code
			// and fall through to the existing-row path.
			existing, resolveErr := s.stockRepo.FindByCode(ctx, code)
			if resolveErr != nil || existing == nil {
				return nil, err
			}
			s.logger.Warn("Duplicate insert race, reusing existing entry",
				logger.StringField("code", code), logger.Field("stock_id", existing.ID))
			return s.refreshExisting(ctx, existing, latest)
		}
		return nil, err
	}

	s.logger.Info("Stock added to watchlist",
		logger.StringField("code", stock.Code), logger.Field("stock_id", stock.ID))
	return s.mapToStockResponse(ctx, stock), nil
}

// refreshExisting applies the re-submission rules to an existing row: price
// backfill when a bar is available, reactivation when the row is inactive.
// Caller-supplied strategy, targets and notes are intentionally not applied.
func (s *stockService) refreshExisting(ctx context.Context, existing *entity.Stock, latest *entity.DailyKLine) (*dto.StockResponse, error) {
	if latest != nil {
		existing.CurrentPrice = latest.ClosePrice
		existing.ChangePercent = latest.PctChg
	}
	if !existing.IsActive {
		existing.IsActive = true
		existing.UpdatedAt = time.Now()
		s.logger.Info("Reactivated watchlist entry",
			logger.StringField("code", existing.Code), logger.Field("stock_id", existing.ID))
	}

	if err := s.stockRepo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return s.mapToStockResponse(ctx, existing), nil
}

// GetAll retrieves all active watchlist entries, name-enriched.
func (s *stockService) GetAll(ctx context.Context) ([]*dto.StockResponse, error) {
	stocks, err := s.stockRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		responses = append(responses, s.mapToStockResponse(ctx, &stocks[i]))
	}
	return responses, nil
}

// GetByID retrieves a single active entry. Soft-deleted rows report not found.
func (s *stockService) GetByID(ctx context.Context, id uint) (*dto.StockResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stock == nil || !stock.IsActive {
		return nil, dto.ErrNotFound
	}
	return s.mapToStockResponse(ctx, stock), nil
}

// Update applies a patch to an active entry. Code, symbol, price fields,
// strategy and confidence are sparse; target price, stop loss and notes always
// overwrite, including with null.
func (s *stockService) Update(ctx context.Context, id uint, req *dto.UpdateStockRequest) (*dto.StockResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stock == nil || !stock.IsActive {
		return nil, dto.ErrNotFound
	}

	if req.Code != nil {
		stock.Code = *req.Code
	}
	if req.Symbol != nil {
		stock.Symbol = *req.Symbol
	}
	if req.CurrentPrice != nil {
		stock.CurrentPrice = *req.CurrentPrice
	}
	if req.ChangePercent != nil {
		stock.ChangePercent = *req.ChangePercent
	}
	if req.Strategy != nil {
		strategy := entity.StrategyType(*req.Strategy)
		if !strategy.Valid() {
			return nil, dto.ErrInvalidStrategy
		}
		stock.Strategy = strategy
	}
	if req.Confidence != nil {
		stock.Confidence = *req.Confidence
	}

	stock.TargetPrice = req.TargetPrice
	stock.StopLoss = req.StopLoss
	stock.Notes = req.Notes

	stock.UpdatedAt = time.Now()

	if err := s.stockRepo.Save(ctx, stock); err != nil {
		return nil, err
	}

	s.logger.Info("Watchlist entry updated", logger.Field("stock_id", stock.ID))
	return s.mapToStockResponse(ctx, stock), nil
}

// Delete soft-deletes an entry by ID.
func (s *stockService) Delete(ctx context.Context, id uint) error {
	exists, err := s.stockRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return dto.ErrNotFound
	}

	if err := s.stockRepo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("Failed to soft-delete stock", logger.ErrorField(err), logger.Field("stock_id", id))
		return err
	}

	s.logger.Info("Watchlist entry soft-deleted", logger.Field("stock_id", id))
	return nil
}

// Search queries the reference catalogue, serving repeated keywords from Redis.
func (s *stockService) Search(ctx context.Context, keyword string) ([]dto.StockBasicResponse, error) {
	cacheKey := common.RedisKeyStockSearchPrefix + keyword

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var results []dto.StockBasicResponse
			if jsonErr := json.Unmarshal([]byte(cached), &results); jsonErr == nil {
				return results, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Search cache lookup failed", logger.ErrorField(err))
		}
	}

	if err := s.searchLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	basics, err := s.basicRepo.Search(ctx, keyword, searchResultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.StockBasicResponse, 0, len(basics))
	for _, basic := range basics {
		results = append(results, dto.StockBasicResponse{
			ID:     basic.ID,
			Code:   basic.Code,
			Symbol: basic.Symbol,
			Name:   basic.Name,
			Type:   basic.Type,
			Status: basic.Status,
		})
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(results); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, s.searchCacheTTL).Err(); err != nil {
				s.logger.Warn("Search cache store failed", logger.ErrorField(err))
			}
		}
	}

	return results, nil
}

// mapToStockResponse maps an entity.Stock to a dto.StockResponse, attaching
// the display name when the reference catalogue knows the code.
func (s *stockService) mapToStockResponse(ctx context.Context, stock *entity.Stock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:            stock.ID,
		Code:          stock.Code,
		Symbol:        stock.Symbol,
		Name:          s.nameResolver.Resolve(ctx, stock.Code),
		CurrentPrice:  stock.CurrentPrice,
		ChangePercent: stock.ChangePercent,
		Strategy:      string(stock.Strategy),
		TargetPrice:   stock.TargetPrice,
		StopLoss:      stock.StopLoss,
		Confidence:    stock.Confidence,
		Notes:         stock.Notes,
		CreatedAt:     stock.CreatedAt,
		UpdatedAt:     stock.UpdatedAt,
		IsActive:      stock.IsActive,
	}
}
