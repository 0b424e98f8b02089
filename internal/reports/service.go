package reports

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"
)

// Service serves dashboard aggregates through the versioned cache, collapsing
// concurrent identical loads.
type Service struct {
	repo  Repository
	cache *Cache
	group singleflight.Group
}

// NewService builds Service. cache may be nil, in which case every call hits
// the database.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// MainStats returns the dashboard stat cards.
func (s *Service) MainStats(ctx context.Context) (MainStats, error) {
	var out MainStats
	err := s.fetch(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.MainStats(ctx)
	}, "dashboard", "stats")
	return out, err
}

// CriticalProducts returns products at or below their minimum threshold.
func (s *Service) CriticalProducts(ctx context.Context) ([]CriticalProduct, error) {
	var out []CriticalProduct
	err := s.fetch(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.CriticalProducts(ctx)
	}, "dashboard", "critical_products")
	return out, err
}

// TopProducts returns the best selling products by quantity.
func (s *Service) TopProducts(ctx context.Context) ([]TopProduct, error) {
	var out []TopProduct
	err := s.fetch(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.TopProducts(ctx)
	}, "dashboard", "top_products")
	return out, err
}

// UpcomingBirthdays returns customers with birthdays in the next seven days.
func (s *Service) UpcomingBirthdays(ctx context.Context) ([]BirthdayCustomer, error) {
	var out []BirthdayCustomer
	err := s.fetch(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.UpcomingBirthdays(ctx)
	}, "dashboard", "birthdays")
	return out, err
}

// RecentSales returns the five most recent sales.
func (s *Service) RecentSales(ctx context.Context) ([]RecentSale, error) {
	var out []RecentSale
	err := s.fetch(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.RecentSales(ctx)
	}, "dashboard", "recent_sales")
	return out, err
}

func (s *Service) fetch(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), keyParts ...string) error {
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return err
	}
	// Followers of a shared flight get the leader's payload, so the cached
	// bytes are what crosses goroutines, not dest.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.(json.RawMessage), dest)
}
