package service

import (
	"context"
	"time"

	"golang-stock-watchlist/internal/watchlist/repository"

	"github.com/patrickmn/go-cache"
)

// NameResolver resolves display names from the reference catalogue with an
// in-process TTL cache. Resolution is best effort: a missing reference row or
// a lookup failure yields an empty name, never an error.
type NameResolver struct {
	basicRepo repository.StockBasicRepository
	cache     *cache.Cache
}

// NewNameResolver creates a name resolver backed by the given repository.
func NewNameResolver(basicRepo repository.StockBasicRepository) *NameResolver {
	return &NameResolver{
		basicRepo: basicRepo,
		cache:     cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Resolve returns the display name for a code, or "" when unknown.
func (n *NameResolver) Resolve(ctx context.Context, code string) string {
	if code == "" {
		return ""
	}
	if name, found := n.cache.Get(code); found {
		return name.(string)
	}

	basic, err := n.basicRepo.FindByCode(ctx, code)
	if err != nil || basic == nil {
		return ""
	}

	n.cache.Set(code, basic.Name, cache.DefaultExpiration)
	return basic.Name
}
