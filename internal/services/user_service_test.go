// internal/services/user_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

func TestUpdateUserProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "asha@example.com")

	updated, err := svc.UpdateUser(context.Background(), user.ID, &UpdateProfileRequest{
		Name:    "Asha R",
		City:    "Mysuru",
		Pincode: "570001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha R", updated.Name)
	assert.Equal(t, "Mysuru", updated.City)
	assert.Equal(t, "asha@example.com", updated.Email, "untouched fields keep their values")
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	createTestUser(t, db, "taken@example.com")
	user := createTestUser(t, db, "asha@example.com")

	_, err := svc.UpdateUser(context.Background(), user.ID, &UpdateProfileRequest{
		Email: "taken@example.com",
	})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestListCustomersSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	createTestUser(t, db, "asha@example.com")
	createTestUser(t, db, "ravi@example.com")

	users, total, err := svc.ListCustomers(context.Background(), utils.PaginationParams{
		Page: 1, Limit: 20, Search: "ravi",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "ravi@example.com", users[0].Email)
}

func TestDeleteUserGuardedByOrders(t *testing.T) {
	db := setupTestDB(t)
	userSvc := NewUserService(db)
	orderSvc := newOrderService(db)

	user := createTestUser(t, db, "asha@example.com")
	widget := createTestProduct(t, db, "Widget", "10.00", 10)

	_, err := orderSvc.PlaceOrder(context.Background(), user.ID, placeOrderRequest(
		OrderLineRequest{ProductID: widget.ID, Quantity: 1},
	))
	require.NoError(t, err)

	err = userSvc.DeleteUser(context.Background(), user.ID)
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// A customer without orders can be removed.
	fresh := createTestUser(t, db, "fresh@example.com")
	require.NoError(t, userSvc.DeleteUser(context.Background(), fresh.ID))

	_, err = userSvc.GetUser(context.Background(), fresh.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	err := svc.DeleteUser(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
