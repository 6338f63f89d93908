// internal/services/order_service_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, NewInventoryService(db))
}

func placeOrderRequest(items ...OrderLineRequest) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Name:          "Asha Rao",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		Address:       "12 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
		PaymentMethod: "cod",
		Items:         items,
	}
}

func TestPlaceOrderComputesServerSideTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "19.99", 10)
	gadget := createTestProduct(t, db, "Gadget", "5.50", 10)

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 2},
		OrderLineRequest{ProductID: gadget.ID, Quantity: 3},
	))
	require.NoError(t, err)

	// 2*19.99 + 3*5.50 = 56.48
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("56.48")),
		"got total %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.BillNumber, "BILL-"))

	assert.Equal(t, 8, productStock(t, db, widget.ID))
	assert.Equal(t, 7, productStock(t, db, gadget.ID))
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
		OrderLineRequest{ProductID: widget.ID, Quantity: 2},
	))
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 7, productStock(t, db, widget.ID))
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")

	_, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest())

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	_, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: -1},
	))

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 10, productStock(t, db, widget.ID))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")

	_, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: uuid.New(), Quantity: 1},
	))

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPlaceOrderUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 10, productStock(t, db, widget.ID))
}

func TestPlaceOrderInsufficientStockLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 2)

	_, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 5},
	))

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, productStock(t, db, widget.ID))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount, "failed placement must not leave an order row")
}

func TestPriceSnapshotSurvivesPriceChange(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", widget.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	view, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("10.00")))
}

func TestBillNumberCollisionRegeneratesOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	first, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	calls := 0
	svc.newBillNumber = func() (string, error) {
		calls++
		if calls == 1 {
			return first.BillNumber, nil
		}
		return "BILL-20260901-A1B2C3", nil
	}

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "BILL-20260901-A1B2C3", order.BillNumber)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 8, productStock(t, db, widget.ID))
}

func TestBillNumberCollisionOnFinalAttemptIsIntegrityError(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	first, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// With a single attempt there is no room to regenerate; the duplicate
	// key must surface as an integrity error, not a retryable one.
	svc.attempts = 1
	svc.newBillNumber = func() (string, error) { return first.BillNumber, nil }

	_, err = svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	var integrityErr *apperrors.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.False(t, errors.Is(err, apperrors.ErrTransient))
	assert.Equal(t, 9, productStock(t, db, widget.ID))
}

func TestBillNumberRepeatedCollisionIsIntegrityError(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	first, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	calls := 0
	svc.newBillNumber = func() (string, error) {
		calls++
		return first.BillNumber, nil
	}

	_, err = svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	var integrityErr *apperrors.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 2, calls, "one regenerate, then fail")
	assert.Equal(t, 9, productStock(t, db, widget.ID))
}

func TestCancelRestoresStockOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 4},
	))
	require.NoError(t, err)
	require.Equal(t, 6, productStock(t, db, widget.ID))

	cancel := &UpdateOrderStatusRequest{Status: models.OrderStatusCancelled}
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, cancel))
	assert.Equal(t, 10, productStock(t, db, widget.ID))

	// Same-state update is a no-op and must not credit stock again.
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, cancel))
	assert.Equal(t, 10, productStock(t, db, widget.ID))
}

func TestCompletedOrderCanStillBeCancelled(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 3},
	))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: models.OrderStatusCompleted}))
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: models.OrderStatusCancelled}))

	assert.Equal(t, 10, productStock(t, db, widget.ID))
}

func TestCancelledOrderCannotComplete(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	order, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: models.OrderStatusCancelled}))

	err = svc.UpdateStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: models.OrderStatusCompleted})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	err := svc.UpdateStatus(context.Background(), uuid.New(),
		&UpdateOrderStatusRequest{Status: "shipped"})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	err := svc.UpdateStatus(context.Background(), uuid.New(),
		&UpdateOrderStatusRequest{Status: models.OrderStatusCompleted})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGetOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	_, err := svc.GetOrder(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListUserOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	user := createTestUser(t, db, "buyer@example.com")
	other := createTestUser(t, db, "other@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 100)

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
			OrderLineRequest{ProductID: widget.ID, Quantity: 1},
		))
		require.NoError(t, err)
	}
	_, err := svc.PlaceOrder(context.Background(), other.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	orders, err := svc.ListUserOrders(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for _, view := range orders {
		assert.Equal(t, user.ID, view.UserID)
	}

	all, total, err := svc.ListOrders(context.Background(), utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, all, 4)
}

func TestConcurrentOrdersCannotOversell(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	widget := createTestProduct(t, db, "Widget", "10.00", 5)

	buyers := []*models.User{
		createTestUser(t, db, "first@example.com"),
		createTestUser(t, db, "second@example.com"),
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), userID, placeOrderRequest(
				OrderLineRequest{ProductID: widget.ID, Quantity: 3},
			))
		}(i, buyer.ID)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			var stockErr *apperrors.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
		}
	}
	assert.Equal(t, 1, successes, "exactly one of two qty-3 orders can fit in stock 5")
	assert.Equal(t, 2, productStock(t, db, widget.ID))
}
