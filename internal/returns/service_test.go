package returns

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/varejo-erp/varejo/internal/inventory"
)

type fakeLine struct {
	LineState
	unitPrice float64
}

// fakeRepo implements Repository in memory. WithTx snapshots the state and
// restores it when the callback fails.
type fakeRepo struct {
	lines     map[int64]*fakeLine
	totals    map[int64]float64
	stock     map[int64]int
	returns   map[int64]*Return
	cancelled map[int64]bool
	nextID    int64
	custName  string
	prodName  map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		lines:     map[int64]*fakeLine{},
		totals:    map[int64]float64{},
		stock:     map[int64]int{},
		returns:   map[int64]*Return{},
		cancelled: map[int64]bool{},
		custName:  "Maria Oliveira",
		prodName:  map[int64]string{},
	}
}

func (f *fakeRepo) snapshot() *fakeRepo {
	clone := newFakeRepo()
	clone.nextID = f.nextID
	for id, l := range f.lines {
		cl := *l
		clone.lines[id] = &cl
	}
	for id, t := range f.totals {
		clone.totals[id] = t
	}
	for id, s := range f.stock {
		clone.stock[id] = s
	}
	for id, r := range f.returns {
		cr := *r
		clone.returns[id] = &cr
	}
	for id, c := range f.cancelled {
		clone.cancelled[id] = c
	}
	return clone
}

func (f *fakeRepo) restore(from *fakeRepo) {
	f.lines = from.lines
	f.totals = from.totals
	f.stock = from.stock
	f.returns = from.returns
	f.cancelled = from.cancelled
	f.nextID = from.nextID
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	saved := f.snapshot()
	if err := fn(ctx, f); err != nil {
		f.restore(saved)
		return err
	}
	return nil
}

func (f *fakeRepo) Ledger() inventory.Ledger {
	return &fakeLedger{repo: f}
}

func (f *fakeRepo) GetLineForUpdate(ctx context.Context, saleLineID int64) (*LineState, error) {
	l, ok := f.lines[saleLineID]
	if !ok || f.cancelled[l.SaleID] {
		return nil, ErrLineNotFound
	}
	state := l.LineState
	state.ProductName = f.prodName[l.ProductID]
	state.CustomerName = f.custName
	return &state, nil
}

func (f *fakeRepo) Insert(ctx context.Context, ret Return) (Return, error) {
	f.nextID++
	ret.ID = f.nextID
	ret.CreatedAt = time.Now()
	f.returns[f.nextID] = &ret
	return ret, nil
}

func (f *fakeRepo) DecrementLineQty(ctx context.Context, saleLineID int64, qty int) error {
	l, ok := f.lines[saleLineID]
	if !ok {
		return ErrLineNotFound
	}
	l.Qty -= qty
	return nil
}

func (f *fakeRepo) UpdateSaleTotal(ctx context.Context, saleID int64) error {
	total := 0.0
	for _, l := range f.lines {
		if l.SaleID == saleID {
			total += float64(l.Qty) * l.unitPrice
		}
	}
	f.totals[saleID] = total
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]ReturnDetail, error) {
	var details []ReturnDetail
	for _, r := range f.returns {
		switch filter.Reusable {
		case FilterOnlyReusable:
			if !r.Reusable {
				continue
			}
		case FilterOnlyNonReusable:
			if r.Reusable {
				continue
			}
		}
		var lineID *int64
		if _, ok := f.lines[r.SaleLineID]; ok {
			id := r.SaleLineID
			lineID = &id
		}
		details = append(details, ReturnDetail{
			ID:           r.ID,
			SaleLineID:   lineID,
			SaleID:       r.SaleID,
			CustomerName: r.CustomerName,
			ProductName:  r.ProductName,
			Qty:          r.Qty,
			Reason:       r.Reason,
			Reusable:     r.Reusable,
			CreatedAt:    r.CreatedAt,
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID > details[j].ID })
	return details, nil
}

type fakeLedger struct {
	repo *fakeRepo
}

func (l *fakeLedger) ReserveAndDebit(ctx context.Context, productID int64, qty int, ref inventory.Ref) error {
	stock, ok := l.repo.stock[productID]
	if !ok {
		return inventory.ErrProductNotFound
	}
	if qty > stock {
		return &inventory.InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
	}
	l.repo.stock[productID] = stock - qty
	return nil
}

func (l *fakeLedger) Credit(ctx context.Context, productID int64, qty int, ref inventory.Ref) error {
	if _, ok := l.repo.stock[productID]; !ok {
		return inventory.ErrProductNotFound
	}
	l.repo.stock[productID] += qty
	return nil
}

func (l *fakeLedger) CurrentStock(ctx context.Context, productID int64) (int, error) {
	stock, ok := l.repo.stock[productID]
	if !ok {
		return 0, inventory.ErrProductNotFound
	}
	return stock, nil
}

type fakeCache struct {
	bumps int
}

func (c *fakeCache) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

// seededRepo sets up one sale (id 100) with a single line: 5 units of product
// 10 at 20.00 each, with 3 units still in stock.
func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.lines[1] = &fakeLine{
		LineState: LineState{ID: 1, SaleID: 100, ProductID: 10, Qty: 5},
		unitPrice: 20.0,
	}
	repo.totals[100] = 100.0
	repo.stock[10] = 3
	repo.prodName[10] = "Arroz Branco 5kg"
	return repo
}

func TestCreateReturnReusableCreditsStock(t *testing.T) {
	repo := seededRepo()
	cache := &fakeCache{}
	svc := NewService(repo, cache)

	ret, err := svc.Create(context.Background(), CreateReturnRequest{
		SaleLineID: 1,
		Qty:        2,
		Reason:     "embalagem danificada",
		Reusable:   true,
	})
	require.NoError(t, err)
	require.NotZero(t, ret.ID)
	require.Equal(t, 2, ret.Qty)

	require.Equal(t, 3, repo.lines[1].Qty)
	require.Equal(t, 60.0, repo.totals[100])
	require.Equal(t, 5, repo.stock[10])
	require.Equal(t, 1, cache.bumps)
}

func TestCreateReturnNonReusableSkipsStockCredit(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateReturnRequest{
		SaleLineID: 1,
		Qty:        2,
		Reusable:   false,
	})
	require.NoError(t, err)

	require.Equal(t, 3, repo.lines[1].Qty)
	require.Equal(t, 60.0, repo.totals[100])
	require.Equal(t, 3, repo.stock[10])
}

func TestCreateReturnExceedsRemaining(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateReturnRequest{
		SaleLineID: 1,
		Qty:        6,
	})
	var excess *ExcessReturnError
	require.ErrorAs(t, err, &excess)
	require.Equal(t, 6, excess.Requested)
	require.Equal(t, 5, excess.Remaining)

	// Nothing persisted.
	require.Equal(t, 5, repo.lines[1].Qty)
	require.Equal(t, 100.0, repo.totals[100])
	require.Empty(t, repo.returns)
}

func TestReturnRatchetReachesZeroThenRejects(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 1, Qty: 1})
		require.NoError(t, err)
	}
	require.Equal(t, 0, repo.lines[1].Qty)
	require.Equal(t, 0.0, repo.totals[100])

	_, err := svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 1, Qty: 1})
	var excess *ExcessReturnError
	require.ErrorAs(t, err, &excess)
	require.Equal(t, 0, excess.Remaining)
	require.Len(t, repo.returns, 5)
}

func TestCreateReturnSnapshotsSaleAndNames(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	ret, err := svc.Create(context.Background(), CreateReturnRequest{
		SaleLineID: 1,
		Qty:        1,
		Reusable:   true,
	})
	require.NoError(t, err)
	require.False(t, ret.CreatedAt.IsZero())
	require.Equal(t, int64(100), ret.SaleID)
	require.Equal(t, int64(10), ret.ProductID)
	require.Equal(t, "Arroz Branco 5kg", ret.ProductName)
	require.Equal(t, "Maria Oliveira", ret.CustomerName)
}

func TestCreateReturnRejectsCancelledSale(t *testing.T) {
	repo := seededRepo()
	repo.cancelled[100] = true
	svc := NewService(repo, nil)

	// Cancellation already credited the sold units back to stock. A return
	// accepted here would credit the same units a second time.
	_, err := svc.Create(context.Background(), CreateReturnRequest{
		SaleLineID: 1,
		Qty:        1,
		Reusable:   true,
	})
	require.ErrorIs(t, err, ErrLineNotFound)

	require.Equal(t, 3, repo.stock[10])
	require.Equal(t, 5, repo.lines[1].Qty)
	require.Empty(t, repo.returns)
}

func TestListSurvivesSaleLineReplacement(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 1, Qty: 2})
	require.NoError(t, err)

	// A sale edit deletes and reinserts lines; the accepted return must keep
	// its snapshot and stay listable.
	delete(repo.lines, 1)

	details, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Nil(t, details[0].SaleLineID)
	require.Equal(t, int64(100), details[0].SaleID)
	require.Equal(t, "Arroz Branco 5kg", details[0].ProductName)
	require.Equal(t, "Maria Oliveira", details[0].CustomerName)
	require.Equal(t, 2, details[0].Qty)
}

func TestCreateReturnValidation(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 1, Qty: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 999, Qty: 1})
	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestListDefaultsToAllAndFilters(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 1, Qty: 1, Reusable: true})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateReturnRequest{SaleLineID: 1, Qty: 1, Reusable: false})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	require.Greater(t, all[0].ID, all[1].ID)

	reusable, err := svc.List(context.Background(), ListFilter{Reusable: FilterOnlyReusable})
	require.NoError(t, err)
	require.Len(t, reusable, 1)
	require.True(t, reusable[0].Reusable)

	scrapped, err := svc.List(context.Background(), ListFilter{Reusable: FilterOnlyNonReusable})
	require.NoError(t, err)
	require.Len(t, scrapped, 1)
	require.False(t, scrapped[0].Reusable)
}
