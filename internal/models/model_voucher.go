package models

import "time"

type Voucher struct {
	ID        string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Code      string     `gorm:"column:code;type:varchar(64);not null;uniqueIndex" json:"code"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	StartDate *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date"`
	// Uses counts redemptions across all customers; UsageLimit 0 means unlimited.
	Uses       int       `gorm:"column:uses;not null;default:0" json:"uses"`
	UsageLimit int       `gorm:"column:usage_limit;not null;default:0" json:"usage_limit"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Voucher) TableName() string { return "vouchers" }

// Redeemable reports whether the voucher itself can still be applied at t.
func (v *Voucher) Redeemable(t time.Time) bool {
	if v == nil || !v.IsActive {
		return false
	}
	if v.StartDate != nil && t.Before(*v.StartDate) {
		return false
	}
	if v.EndDate != nil && t.After(*v.EndDate) {
		return false
	}
	return v.UsageLimit <= 0 || v.Uses < v.UsageLimit
}

// UserVoucher grants one voucher to one customer; it can be used once.
type UserVoucher struct {
	ID         string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CustomerID string     `gorm:"column:customer_id;type:varchar(64);not null;uniqueIndex:idx_customer_voucher,priority:1" json:"customer_id"`
	VoucherID  string     `gorm:"column:voucher_id;type:uuid;not null;uniqueIndex:idx_customer_voucher,priority:2" json:"voucher_id"`
	IsUsed     bool       `gorm:"column:is_used;not null;default:false" json:"is_used"`
	UsedAt     *time.Time `gorm:"column:used_at" json:"used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Voucher *Voucher `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
}

func (UserVoucher) TableName() string { return "user_vouchers" }
