package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundromat/internal/domain"
)

func newCatalogService() (CatalogService, *fakeStore) {
	store := newFakeStore()
	return NewCatalogService(serviceStore{store}), store
}

func TestCatalogCreate(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	created, err := svc.Create(ctx, ServiceInput{
		Name:               "Dry Cleaning",
		PricePerKg:         10.0,
		Description:        "Solvent cleaning for delicates",
		EstimatedTimeHours: 48,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dry Cleaning", got.Name)
	assert.Equal(t, 10.0, got.PricePerKg)
}

func TestCatalogCreateValidation(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	tests := []ServiceInput{
		{PricePerKg: 5.0, EstimatedTimeHours: 24},
		{Name: "Wash", PricePerKg: 0, EstimatedTimeHours: 24},
		{Name: "Wash", PricePerKg: -1, EstimatedTimeHours: 24},
		{Name: "Wash", PricePerKg: 5.0, EstimatedTimeHours: 0},
	}
	for _, in := range tests {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCatalogUpdate(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	created, err := svc.Create(ctx, ServiceInput{Name: "Ironing Only", PricePerKg: 3.0, EstimatedTimeHours: 6})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ServiceInput{Name: "Ironing Only", PricePerKg: 4.0, EstimatedTimeHours: 6})
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.PricePerKg)

	_, err = svc.Update(ctx, 999, ServiceInput{Name: "Ghost", PricePerKg: 1.0, EstimatedTimeHours: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogDelete(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	created, err := svc.Create(ctx, ServiceInput{Name: "Express Wash", PricePerKg: 8.0, EstimatedTimeHours: 12})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrNotFound)

	// A service referenced by an order cannot be removed.
	kept, err := svc.Create(ctx, ServiceInput{Name: "Regular Wash", PricePerKg: 5.0, EstimatedTimeHours: 24})
	require.NoError(t, err)
	store.orders[1] = domain.Order{ID: 1, ServiceID: kept.ID}

	assert.ErrorIs(t, svc.Delete(ctx, kept.ID), domain.ErrServiceInUse)
}

func TestCatalogList(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ServiceInput{Name: "Regular Wash", PricePerKg: 5.0, EstimatedTimeHours: 24})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ServiceInput{Name: "Express Wash", PricePerKg: 8.0, EstimatedTimeHours: 12})
	require.NoError(t, err)

	services, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Regular Wash", services[0].Name)
	assert.Equal(t, "Express Wash", services[1].Name)
}
