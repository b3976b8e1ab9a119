package models

import "time"

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
)

// Referral links a referrer to the user they brought in. The unique index on
// ReferredUserID guarantees at most one inbound referral per user.
type Referral struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferrerID     uint           `gorm:"index;not null" json:"referrer_id"`
	ReferredUserID uint           `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	ReferredUser   User           `gorm:"foreignKey:ReferredUserID" json:"referred_user"`
	Status         ReferralStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}
