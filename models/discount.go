package models

import "time"

// DiscountCode is a promotional percentage code with a global usage cap.
// Invariant: UsedCount never exceeds UsageLimit, enforced by the discount
// registry's conditional increment.
type DiscountCode struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code               string    `gorm:"unique;not null" json:"code"`
	DiscountPercentage int       `gorm:"not null" json:"discount_percentage"` // 1-100
	ExpiryDate         time.Time `gorm:"not null" json:"expiry_date"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	UsageLimit         int       `gorm:"default:100" json:"usage_limit"`
	UsedCount          int       `gorm:"default:0" json:"used_count"`
	CreatedAt          time.Time `json:"created_at"`
}
