// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image,omitempty" gorm:"size:255"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Image       string          `json:"image,omitempty" gorm:"size:255"`
	// StockQuantity is written only through the inventory ledger
	// (reserve/restore/replenish), never by catalog updates.
	StockQuantity int        `json:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	CategoryID    *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`

	// Relationships
	Category *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Details  []ProductDetail `json:"details,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductDetail is the extended spec sheet shown on a product page.
type ProductDetail struct {
	BaseModel
	ProductID     uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	Description   string         `json:"description" gorm:"type:text"`
	Advantages    string         `json:"advantages" gorm:"type:text"`
	Disadvantages string         `json:"disadvantages" gorm:"type:text"`
	Images        pq.StringArray `json:"images" gorm:"type:text[]"`
}
