// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is immutable after creation except for Status and PaymentStatus.
// Customer fields are a snapshot taken at checkout; later profile edits
// must not change historical orders.
type Order struct {
	BaseModel
	UserID        uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Name          string          `json:"name" gorm:"size:100;not null"`
	Email         string          `json:"email" gorm:"size:255;not null"`
	Phone         string          `json:"number" gorm:"column:number;size:20"`
	AltPhone      string          `json:"alt_number" gorm:"column:alt_number;size:20"`
	Address       string          `json:"address" gorm:"type:text"`
	City          string          `json:"city" gorm:"size:100"`
	State         string          `json:"state" gorm:"size:100"`
	Pincode       string          `json:"pincode" gorm:"size:10"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	BillNumber    string          `json:"bill_number" gorm:"size:40;uniqueIndex;not null"`

	// Relationships
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// OrderItem is owned exclusively by one Order. UnitPrice is a snapshot of
// the product price at purchase time. ProductID is nullable so historical
// lines survive product deletion.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `json:"product_id" gorm:"type:uuid;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
}

// StockRestoration marks that a cancelled order's inventory has been
// credited back. The unique index on OrderID makes the restore
// applied-once: a second cancellation finds the marker and is a no-op.
type StockRestoration struct {
	BaseModel
	OrderID uuid.UUID `json:"order_id" gorm:"type:uuid;uniqueIndex;not null"`
}
