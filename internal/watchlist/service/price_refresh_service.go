package service

import (
	"context"
	"fmt"
	"time"

	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/pkg/logger"

	"github.com/robfig/cron/v3"
)

// PriceRefreshService periodically pushes the latest daily close and percent
// change from daily_k_lines into the active watchlist rows.
type PriceRefreshService interface {
	Start(ctx context.Context)
	Refresh(ctx context.Context)
}

// NewPriceRefreshService creates a price refresher driven by a cron expression.
func NewPriceRefreshService(
	stockRepo repository.StockRepository,
	kLineRepo repository.DailyKLineRepository,
	log *logger.Logger,
	cronExpression string,
	pollingInterval time.Duration,
) (PriceRefreshService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cronExpression)
	if err != nil {
		return nil, fmt.Errorf("invalid price refresh cron expression %q: %w", cronExpression, err)
	}

	return &priceRefreshService{
		stockRepo:       stockRepo,
		kLineRepo:       kLineRepo,
		logger:          log,
		schedule:        schedule,
		pollingInterval: pollingInterval,
	}, nil
}

type priceRefreshService struct {
	stockRepo       repository.StockRepository
	kLineRepo       repository.DailyKLineRepository
	logger          *logger.Logger
	schedule        cron.Schedule
	pollingInterval time.Duration
}

// Start runs the refresh loop until the context is canceled.
func (s *priceRefreshService) Start(ctx context.Context) {
	next := s.schedule.Next(time.Now())
	s.logger.Info("Price refresh scheduled", logger.Field("next_run", next))

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Price refresh service stopping")
			return
		case <-ticker.C:
			if time.Now().Before(next) {
				continue
			}
			s.Refresh(ctx)
			next = s.schedule.Next(time.Now())
		}
	}
}

// Refresh updates the price columns of every active entry that has a daily bar.
func (s *priceRefreshService) Refresh(ctx context.Context) {
	stocks, err := s.stockRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active stocks for price refresh", logger.ErrorField(err))
		return
	}

	refreshed := 0
	for i := range stocks {
		latest, err := s.kLineRepo.FindLatestByCode(ctx, stocks[i].Code)
		if err != nil {
			s.logger.Error("Failed to load latest bar",
				logger.ErrorField(err), logger.StringField("code", stocks[i].Code))
			continue
		}
		if latest == nil {
			continue
		}

		if err := s.stockRepo.UpdatePrice(ctx, stocks[i].Code, latest.ClosePrice, latest.PctChg); err != nil {
			s.logger.Error("Failed to update price",
				logger.ErrorField(err), logger.StringField("code", stocks[i].Code))
			continue
		}
		refreshed++
	}

	s.logger.Info("Price refresh completed",
		logger.IntField("active", len(stocks)), logger.IntField("refreshed", refreshed))
}
