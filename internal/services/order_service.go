// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/database"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

const (
	// Bounded retry for transient serialization/deadlock conflicts.
	placeOrderAttempts = 3
	placeOrderBackoff  = 50 * time.Millisecond
)

type OrderService struct {
	db        *gorm.DB
	inventory *InventoryService

	attempts      int
	newBillNumber func() (string, error)
}

func NewOrderService(db *gorm.DB, inventory *InventoryService) *OrderService {
	return &OrderService{
		db:            db,
		inventory:     inventory,
		attempts:      placeOrderAttempts,
		newBillNumber: utils.GenerateBillNumber,
	}
}

type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type PlaceOrderRequest struct {
	Name          string             `json:"name" validate:"required,max=100"`
	Email         string             `json:"email" validate:"required,email"`
	Phone         string             `json:"number" validate:"required,phone"`
	AltPhone      string             `json:"alt_number" validate:"omitempty,phone"`
	Address       string             `json:"address" validate:"required"`
	City          string             `json:"city" validate:"required"`
	State         string             `json:"state" validate:"required"`
	Pincode       string             `json:"pincode" validate:"required,pincode"`
	PaymentMethod string             `json:"payment_method" validate:"required,max=50"`
	PaymentStatus string             `json:"payment_status" validate:"omitempty,oneof=pending paid"`
	Items         []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status        models.OrderStatus   `json:"status" validate:"required"`
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"omitempty"`
}

// OrderItemView flattens a line item with its product's display fields.
// Product columns are nil-safe: lines keep rendering after the product is
// deleted, just without name/image.
type OrderItemView struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          *uuid.UUID      `json:"product_id"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	ProductName        string          `json:"product_name,omitempty"`
	ProductImage       string          `json:"product_image,omitempty"`
	ProductDescription string          `json:"product_description,omitempty"`
}

type OrderView struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"user_id"`
	UserName      string               `json:"user_name,omitempty"`
	UserEmail     string               `json:"user_email,omitempty"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"number"`
	AltPhone      string               `json:"alt_number,omitempty"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	State         string               `json:"state"`
	Pincode       string               `json:"pincode"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Status        models.OrderStatus   `json:"status"`
	PaymentMethod string               `json:"payment_method"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	BillNumber    string               `json:"bill_number"`
	CreatedAt     time.Time            `json:"created_at"`
	Items         []OrderItemView      `json:"items"`
}

// PlaceOrder creates an order, its line items and the matching inventory
// decrement as one atomic unit of work. Totals are recomputed from the
// product prices read inside the transaction; any client-submitted total
// is ignored. Transient store conflicts and a bill-number collision are
// retried within a fixed budget.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}
	if len(req.Items) == 0 {
		return nil, apperrors.Validationf("order must contain at least one item")
	}

	lines := make([]ReservationLine, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validationf("quantity must be greater than zero")
		}
		lines = append(lines, ReservationLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	merged := MergeLines(lines)

	var lastErr error
	billRetried := false
	for attempt := 1; attempt <= s.attempts; attempt++ {
		order, err := s.placeOrderOnce(ctx, userID, req, merged)
		if err == nil {
			return order, nil
		}

		switch {
		case database.IsSerializationFailure(err):
			lastErr = err
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"user_id": userID,
			}).WithError(err).Warn("Order placement hit a store conflict, retrying")
			time.Sleep(time.Duration(attempt) * placeOrderBackoff)
		case database.IsUniqueViolation(err):
			// A freshly generated bill number collided; regenerate once.
			// A second collision, or one with no attempts left, is an
			// integrity failure, never a transient one.
			if billRetried || attempt == s.attempts {
				return nil, &apperrors.IntegrityError{Op: "place order", Err: err}
			}
			billRetried = true
			lastErr = err
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrTransient, lastErr)
}

func (s *OrderService) placeOrderOnce(ctx context.Context, userID uuid.UUID, req *PlaceOrderRequest, lines []ReservationLine) (*models.Order, error) {
	billNumber, err := s.newBillNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bill number: %w", err)
	}

	paymentStatus := models.PaymentStatusPending
	if req.PaymentStatus != "" {
		paymentStatus = models.PaymentStatus(req.PaymentStatus)
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validationf("user %s not found", userID)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		byID := make(map[uuid.UUID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, line := range lines {
			if _, ok := byID[line.ProductID]; !ok {
				return apperrors.Validationf("product %s not found", line.ProductID)
			}
		}

		// Decrement before the order insert so the conditional updates and
		// the new rows share one commit.
		if err := s.inventory.Reserve(tx, lines); err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product := byID[line.ProductID]
			productID := product.ID
			items = append(items, models.OrderItem{
				ProductID: &productID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order = &models.Order{
			UserID:        userID,
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			AltPhone:      req.AltPhone,
			Address:       req.Address,
			City:          req.City,
			State:         req.State,
			Pincode:       req.Pincode,
			TotalAmount:   total,
			Status:        models.OrderStatusPending,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: paymentStatus,
			BillNumber:    billNumber,
			Items:         items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"bill_number": order.BillNumber,
		"total":       order.TotalAmount,
		"items":       len(order.Items),
	}).Info("Order placed")
	return order, nil
}

// UpdateStatus applies an admin status transition. The first transition
// into cancelled restores the order's inventory in the same transaction;
// the applied-once marker keeps repeated cancellations from double
// crediting.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *UpdateOrderStatusRequest) error {
	if !req.Status.Valid() {
		return apperrors.Validationf("invalid order status %q", req.Status)
	}
	if req.PaymentStatus != "" && !req.PaymentStatus.Valid() {
		return apperrors.Validationf("invalid payment status %q", req.PaymentStatus)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order: %w", apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		prevStatus := order.Status
		if !prevStatus.CanTransitionTo(req.Status) {
			return apperrors.Validationf("cannot transition order from %s to %s", prevStatus, req.Status)
		}

		updates := map[string]interface{}{"status": req.Status}
		if req.PaymentStatus != "" {
			if !order.PaymentStatus.CanTransitionTo(req.PaymentStatus) {
				return apperrors.Validationf("cannot transition payment from %s to %s", order.PaymentStatus, req.PaymentStatus)
			}
			updates["payment_status"] = req.PaymentStatus
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		if req.Status == models.OrderStatusCancelled && prevStatus != models.OrderStatusCancelled {
			lines := make([]ReservationLine, 0, len(order.Items))
			for _, item := range order.Items {
				if item.ProductID == nil {
					continue // product deleted since purchase, nothing to credit
				}
				lines = append(lines, ReservationLine{ProductID: *item.ProductID, Quantity: item.Quantity})
			}
			applied, err := s.inventory.RestoreInTx(tx, order.ID, lines)
			if err != nil {
				return err
			}
			if applied {
				logrus.WithField("order_id", order.ID).Info("Cancelled order stock restored")
			}
		}
		return nil
	})
}

// GetOrder returns the order aggregate with denormalized line items.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderView, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("User").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	view := newOrderView(&order)
	return &view, nil
}

// ListOrders is the admin listing, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params utils.PaginationParams) ([]OrderView, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Preload("Items").Preload("Items.Product").Preload("User").
		Order("created_at DESC"), params).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return newOrderViews(orders), total, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user orders: %w", err)
	}
	return newOrderViews(orders), nil
}

func newOrderViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views
}

func newOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:            order.ID,
		UserID:        order.UserID,
		Name:          order.Name,
		Email:         order.Email,
		Phone:         order.Phone,
		AltPhone:      order.AltPhone,
		Address:       order.Address,
		City:          order.City,
		State:         order.State,
		Pincode:       order.Pincode,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		BillNumber:    order.BillNumber,
		CreatedAt:     order.CreatedAt,
		Items:         make([]OrderItemView, 0, len(order.Items)),
	}
	if order.User != nil {
		view.UserName = order.User.Name
		view.UserEmail = order.User.Email
	}
	for _, item := range order.Items {
		itemView := OrderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
		if item.Product != nil {
			itemView.ProductName = item.Product.Name
			itemView.ProductImage = item.Product.Image
			itemView.ProductDescription = item.Product.Description
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}
