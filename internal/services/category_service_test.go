// internal/services/category_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
)

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	_, err := svc.CreateCategory(context.Background(), &CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), &CategoryRequest{Name: "Electronics"})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestListCategoriesAlphabetical(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	for _, name := range []string{"Toys", "Electronics", "Books"} {
		_, err := svc.CreateCategory(context.Background(), &CategoryRequest{Name: name})
		require.NoError(t, err)
	}

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Electronics", categories[1].Name)
	assert.Equal(t, "Toys", categories[2].Name)
}

func TestDeleteCategoryGuardedByProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	category, err := svc.CreateCategory(context.Background(), &CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	product := createTestProduct(t, db, "Widget", "10.00", 1)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("category_id", category.ID).Error)

	err = svc.DeleteCategory(context.Background(), category.ID)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "1 products")

	// Detach the product and the delete goes through.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("category_id", nil).Error)
	require.NoError(t, svc.DeleteCategory(context.Background(), category.ID))

	_, err = svc.GetCategory(context.Background(), category.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	category, err := svc.CreateCategory(context.Background(), &CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(context.Background(), category.ID, &CategoryRequest{
		Name:        "Gadgets",
		Description: "Small electronics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gadgets", updated.Name)

	reloaded, err := svc.GetCategory(context.Background(), category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadgets", reloaded.Name)
	assert.Equal(t, "Small electronics", reloaded.Description)
}

func TestGetCategoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	_, err := svc.GetCategory(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
