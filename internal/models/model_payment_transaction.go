package models

import (
	"time"

	"github.com/fatflowers/checkout/pkg/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentTransaction records one attempt to collect an order through the gateway.
//
// PaymentOrderID is the numeric code the gateway knows the payment by; the unique
// index is what guarantees it is never reused. TransactionID stays NULL between the
// code reservation and the gateway answer, both inside the same DB transaction.
type PaymentTransaction struct {
	ID              string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OrderID         string              `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	PaymentMethodID string              `gorm:"column:payment_method_id;type:uuid;not null" json:"payment_method_id"`
	PaymentOrderID  int64               `gorm:"column:payment_order_id;not null;uniqueIndex" json:"payment_order_id"`
	TransactionID   *string             `gorm:"column:transaction_id;type:varchar(128);uniqueIndex" json:"transaction_id"`
	Amount          int64               `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Status          types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	// PaymentData is the latest gateway snapshot for this attempt.
	PaymentData datatypes.JSON `gorm:"column:payment_data;type:jsonb" json:"payment_data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

func (PaymentTransaction) TableName() string { return "payment_transaction" }
