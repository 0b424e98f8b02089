package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products   map[int64]Product
	nextID     int64
	referenced map[int64]bool
	lastList   ListFilters
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[int64]Product{}, referenced: map[int64]bool{}}
}

func (f *fakeRepo) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	f.lastList = filters
	var list []Product
	for _, p := range f.products {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := f.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Create(ctx context.Context, p Product) (Product, error) {
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, p Product) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	p.ID = id
	f.products[id] = p
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	if f.referenced[id] {
		return ErrReferenced
	}
	delete(f.products, id)
	return nil
}

func TestCreateProductNormalizesCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name:      "Arroz Branco 5kg",
		SalePrice: 24.9,
		Category:  "  mercearia  ",
	})
	require.NoError(t, err)
	require.Equal(t, "Mercearia", p.Category)

	p, err = svc.Create(context.Background(), CreateProductRequest{
		Name:      "Feijão Carioca 1kg",
		SalePrice: 8.5,
	})
	require.NoError(t, err)
	require.Equal(t, DefaultCategory, p.Category)
}

func TestCreateProductRejectsNegativeValues(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "x", SalePrice: -1})
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.Create(context.Background(), CreateProductRequest{Name: "x", StockQty: -1})
	require.ErrorIs(t, err, ErrInvalidStock)
}

func TestListNormalizesCategoryFilterOnlyWhenSet(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "a", Category: "bebidas"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateProductRequest{Name: "b"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// An empty filter must not fall back to the default category.
	require.Empty(t, repo.lastList.Category)

	drinks, err := svc.List(context.Background(), ListFilters{Category: "bebidas"})
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	require.Equal(t, "Bebidas", repo.lastList.Category)
}

func TestSnapshotPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateProductRequest{Name: "a", SalePrice: 12.5})
	require.NoError(t, err)

	price, err := svc.SnapshotPrice(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 12.5, price)

	_, err = svc.SnapshotPrice(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReferencedProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateProductRequest{Name: "a"})
	require.NoError(t, err)
	repo.referenced[p.ID] = true

	err = svc.Delete(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrReferenced)

	_, err = svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
}
