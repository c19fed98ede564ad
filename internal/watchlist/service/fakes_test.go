package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang-stock-watchlist/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeStockRepo is an in-memory StockRepository that enforces the unique-code
// constraint the way the database does.
type fakeStockRepo struct {
	mu           sync.Mutex
	stocks       map[uint]*entity.Stock
	nextID       uint
	beforeCreate func()
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[uint]*entity.Stock), nextID: 1}
}

func (r *fakeStockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stocks {
		if s.Code == stock.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	stock.ID = r.nextID
	r.nextID++
	cp := *stock
	r.stocks[stock.ID] = &cp
	return nil
}

func (r *fakeStockRepo) Save(ctx context.Context, stock *entity.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *stock
	r.stocks[stock.ID] = &cp
	return nil
}

func (r *fakeStockRepo) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stocks[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeStockRepo) FindByCode(ctx context.Context, code string) (*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stocks {
		if s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) FindActive(ctx context.Context) ([]entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []entity.Stock
	for _, s := range r.stocks {
		if s.IsActive {
			active = append(active, *s)
		}
	}
	return active, nil
}

func (r *fakeStockRepo) Exists(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.stocks[id]
	return ok, nil
}

func (r *fakeStockRepo) SoftDelete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stocks[id]; ok {
		s.IsActive = false
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeStockRepo) UpdatePrice(ctx context.Context, code string, price, changePercent decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stocks {
		if s.Code == code && s.IsActive {
			s.CurrentPrice = price
			s.ChangePercent = changePercent
			s.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *fakeStockRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stocks)), nil
}

func (r *fakeStockRepo) activeCountByCode(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.stocks {
		if s.Code == code && s.IsActive {
			count++
		}
	}
	return count
}

// fakeStockBasicRepo is an in-memory reference catalogue.
type fakeStockBasicRepo struct {
	rows      []entity.StockBasic
	findCalls int
}

func (r *fakeStockBasicRepo) FindByCode(ctx context.Context, code string) (*entity.StockBasic, error) {
	r.findCalls++
	for i := range r.rows {
		if r.rows[i].Code == code {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStockBasicRepo) Search(ctx context.Context, keyword string, limit int) ([]entity.StockBasic, error) {
	var results []entity.StockBasic
	for _, row := range r.rows {
		if len(results) >= limit {
			break
		}
		if strings.HasPrefix(row.Code, keyword) ||
			strings.HasPrefix(row.Symbol, keyword) ||
			strings.Contains(row.Name, keyword) {
			results = append(results, row)
		}
	}
	return results, nil
}

// fakeDailyKLineRepo holds at most one (latest) bar per code.
type fakeDailyKLineRepo struct {
	bars map[string]*entity.DailyKLine
}

func newFakeDailyKLineRepo() *fakeDailyKLineRepo {
	return &fakeDailyKLineRepo{bars: make(map[string]*entity.DailyKLine)}
}

func (r *fakeDailyKLineRepo) FindLatestByCode(ctx context.Context, code string) (*entity.DailyKLine, error) {
	if bar, ok := r.bars[code]; ok {
		cp := *bar
		return &cp, nil
	}
	return nil, nil
}
