package models

import (
	"time"

	"github.com/fatflowers/checkout/pkg/types"
	"github.com/shopspring/decimal"
)

// Order is the checkout aggregate. Rows are created by the storefront and only
// status-transitioned afterwards; they are never deleted.
type Order struct {
	ID            string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CustomerID    string              `gorm:"column:customer_id;type:varchar(64);not null;index" json:"customer_id"`
	OrderStatus   types.OrderStatus   `gorm:"column:order_status;type:varchar(32);not null" json:"order_status"`
	PaymentStatus types.PaymentStatus `gorm:"column:payment_status;type:varchar(32);not null" json:"payment_status"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(15,2);not null" json:"total_price"`
	DiscountPrice decimal.Decimal     `gorm:"column:discount_price;type:numeric(15,2);not null;default:0" json:"discount_price"`
	Note          string              `gorm:"column:note;type:text" json:"note"`
	// PaymentMethodID points at payment_methods; only PayOS orders enter the reconciliation flow.
	PaymentMethodID   string     `gorm:"column:payment_method_id;type:uuid;not null" json:"payment_method_id"`
	PaymentURL        *string    `gorm:"column:payment_url;type:text" json:"payment_url"`
	PaymentURLExpired *time.Time `gorm:"column:payment_url_expired" json:"payment_url_expired"`
	PaymentTime       *time.Time `gorm:"column:payment_time" json:"payment_time"`

	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	Details       []*OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

type OrderDetail struct {
	ID          string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OrderID     string          `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductName string          `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(15,2);not null" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (OrderDetail) TableName() string { return "order_details" }

type PaymentMethod struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Code      string    `gorm:"column:code;type:varchar(32);not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }
