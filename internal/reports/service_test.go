package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	stats         MainStats
	statsCalls    int
	critical      []CriticalProduct
	criticalCalls int
	top           []TopProduct
	topCalls      int
	birthdays     []BirthdayCustomer
	birthdayCalls int
	recent        []RecentSale
	recentCalls   int
}

func (m *mockRepo) MainStats(ctx context.Context) (MainStats, error) {
	m.statsCalls++
	return m.stats, nil
}

func (m *mockRepo) CriticalProducts(ctx context.Context) ([]CriticalProduct, error) {
	m.criticalCalls++
	return m.critical, nil
}

func (m *mockRepo) TopProducts(ctx context.Context) ([]TopProduct, error) {
	m.topCalls++
	return m.top, nil
}

func (m *mockRepo) UpcomingBirthdays(ctx context.Context) ([]BirthdayCustomer, error) {
	m.birthdayCalls++
	return m.birthdays, nil
}

func (m *mockRepo) RecentSales(ctx context.Context) ([]RecentSale, error) {
	m.recentCalls++
	return m.recent, nil
}

func newTestService(t *testing.T, repo Repository) (*Service, *Cache, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	svc := NewService(repo, cache)
	return svc, cache, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestMainStatsCaches(t *testing.T) {
	repo := &mockRepo{stats: MainStats{
		TotalProducts:  6,
		TotalCustomers: 3,
		TotalSales:     10,
		TotalRevenue:   1234.5,
	}}
	svc, _, cleanup := newTestService(t, repo)
	defer cleanup()

	ctx := context.Background()
	first, err := svc.MainStats(ctx)
	require.NoError(t, err)
	require.Equal(t, repo.stats, first)

	second, err := svc.MainStats(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.statsCalls)
}

func TestBumpInvalidatesCachedAggregates(t *testing.T) {
	repo := &mockRepo{stats: MainStats{TotalSales: 1}}
	svc, cache, cleanup := newTestService(t, repo)
	defer cleanup()

	ctx := context.Background()
	_, err := svc.MainStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.statsCalls)

	repo.stats = MainStats{TotalSales: 2}
	require.NoError(t, cache.Bump(ctx))

	after, err := svc.MainStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), after.TotalSales)
	require.Equal(t, 2, repo.statsCalls)
}

func TestCriticalProductsCachesList(t *testing.T) {
	repo := &mockRepo{critical: []CriticalProduct{
		{ProductID: 1, Name: "Banana Prata kg", StockQty: 0, MinQty: 5, Status: StockStatusOutOfStock},
		{ProductID: 2, Name: "Suco de Uva Integral 1L", StockQty: 8, MinQty: 10, Status: StockStatusCritical},
	}}
	svc, _, cleanup := newTestService(t, repo)
	defer cleanup()

	ctx := context.Background()
	list, err := svc.CriticalProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, StockStatusOutOfStock, list[0].Status)

	_, err = svc.CriticalProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.criticalCalls)
}

func TestNilCacheFallsThroughToRepository(t *testing.T) {
	repo := &mockRepo{recent: []RecentSale{{SaleID: 7, CustomerName: "Ana Souza", Total: 42}}}
	svc := NewService(repo, nil)

	ctx := context.Background()
	first, err := svc.RecentSales(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.RecentSales(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.recentCalls)
}
