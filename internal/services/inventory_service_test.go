// internal/services/inventory_service_test.go
package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
)

func TestMergeLinesSumsDuplicates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	merged := MergeLines([]ReservationLine{
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 5},
		{ProductID: a, Quantity: 2},
	})

	require.Len(t, merged, 2)
	total := map[uuid.UUID]int{}
	for _, line := range merged {
		total[line.ProductID] = line.Quantity
	}
	assert.Equal(t, 3, total[a])
	assert.Equal(t, 5, total[b])
}

func TestMergeLinesSortsAscending(t *testing.T) {
	lines := make([]ReservationLine, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, ReservationLine{ProductID: uuid.New(), Quantity: 1})
	}

	merged := MergeLines(lines)
	for i := 1; i < len(merged); i++ {
		prev, cur := merged[i-1].ProductID, merged[i].ProductID
		assert.True(t, bytes.Compare(prev[:], cur[:]) < 0)
	}
}

func TestReserveDecrementsExactly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Widget", "10.00", 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(tx, []ReservationLine{{ProductID: product.ID, Quantity: 4}})
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productStock(t, db, product.ID))
}

func TestReserveDrainsToZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Widget", "10.00", 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(tx, []ReservationLine{{ProductID: product.ID, Quantity: 10}})
	})
	require.NoError(t, err)
	assert.Equal(t, 0, productStock(t, db, product.ID))
}

func TestReserveInsufficientStockIsTyped(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Widget", "10.00", 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(tx, []ReservationLine{{ProductID: product.ID, Quantity: 1}})
	})

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, "Widget", stockErr.ProductName)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)
	assert.Equal(t, 0, productStock(t, db, product.ID))
}

func TestReserveRollsBackEarlierLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	ok := createTestProduct(t, db, "Plenty", "5.00", 10)
	scarce := createTestProduct(t, db, "Scarce", "5.00", 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(tx, MergeLines([]ReservationLine{
			{ProductID: ok.ID, Quantity: 3},
			{ProductID: scarce.ID, Quantity: 2},
		}))
	})

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, productStock(t, db, ok.ID), "successful line must roll back with the failed one")
	assert.Equal(t, 1, productStock(t, db, scarce.ID))
}

func TestReserveUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Reserve(tx, []ReservationLine{{ProductID: uuid.New(), Quantity: 1}})
	})

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRestoreIsAppliedOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Widget", "10.00", 3)
	orderID := uuid.New()
	lines := []ReservationLine{{ProductID: product.ID, Quantity: 4}}

	applied, err := svc.Restore(context.Background(), orderID, lines)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 7, productStock(t, db, product.ID))

	applied, err = svc.Restore(context.Background(), orderID, lines)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 7, productStock(t, db, product.ID), "second restore must not credit again")
}

func TestReplenishAddsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Widget", "10.00", 2)

	updated, err := svc.Replenish(context.Background(), product.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestReplenishRejectsNonPositive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Widget", "10.00", 2)

	_, err := svc.Replenish(context.Background(), product.ID, 0)
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestReplenishUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	_, err := svc.Replenish(context.Background(), uuid.New(), 5)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
