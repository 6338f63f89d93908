// internal/services/inventory_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/database"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
)

// InventoryService is the only code path that writes stock_quantity.
// Reservations are conditional decrements executed inside the caller's
// transaction so an order insert and its stock movement commit or roll
// back together.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

type ReservationLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// MergeLines sums duplicate product entries and sorts ascending by product
// id. The fixed acquisition order keeps concurrent multi-item reservations
// from deadlocking each other; merging keeps a duplicated line from being
// counted twice against the same row.
func MergeLines(lines []ReservationLine) []ReservationLine {
	byProduct := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		byProduct[line.ProductID] += line.Quantity
	}

	merged := make([]ReservationLine, 0, len(byProduct))
	for id, qty := range byProduct {
		merged = append(merged, ReservationLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool {
		return bytes.Compare(merged[i].ProductID[:], merged[j].ProductID[:]) < 0
	})
	return merged
}

// Reserve decrements stock for every line, all-or-nothing. Lines must
// already be merged and sorted (see MergeLines). A line that cannot be
// satisfied returns InsufficientStockError and the surrounding transaction
// rolls every prior decrement back.
func (s *InventoryService) Reserve(tx *gorm.DB, lines []ReservationLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return apperrors.Validationf("quantity must be greater than zero")
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var product models.Product
			if err := tx.Select("id", "name", "stock_quantity").
				First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Validationf("product %s not found", line.ProductID)
				}
				return fmt.Errorf("failed to read product stock: %w", err)
			}
			return &apperrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   line.Quantity,
			}
		}
	}
	return nil
}

// RestoreInTx credits a cancelled order's quantities back inside tx. The
// stock_restorations marker row makes the credit applied-once per order:
// a second cancellation hits the unique index and leaves stock untouched.
// Returns whether the restore was applied by this call.
func (s *InventoryService) RestoreInTx(tx *gorm.DB, orderID uuid.UUID, lines []ReservationLine) (bool, error) {
	marker := models.StockRestoration{OrderID: orderID}
	if err := tx.Create(&marker).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record stock restoration: %w", err)
	}

	for _, line := range MergeLines(lines) {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", line.ProductID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", line.Quantity)).Error; err != nil {
			return false, fmt.Errorf("failed to restore stock: %w", err)
		}
	}
	return true, nil
}

// Restore is RestoreInTx in its own transaction, for callers outside the
// order status flow.
func (s *InventoryService) Restore(ctx context.Context, orderID uuid.UUID, lines []ReservationLine) (bool, error) {
	var applied bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		applied, txErr = s.RestoreInTx(tx, orderID, lines)
		return txErr
	})
	return applied, err
}

// Replenish is the admin restock path. Delivery receipts add stock here
// instead of editing the product row directly.
func (s *InventoryService) Replenish(ctx context.Context, productID uuid.UUID, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.Validationf("restock quantity must be greater than zero")
	}

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to replenish stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product: %w", apperrors.ErrNotFound)
		}
		return tx.First(&product, "id = ?", productID).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
