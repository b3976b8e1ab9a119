package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// ValidateDiscount is the read-only check used for previews. Checks run in a
// fixed order: existence, active flag, expiry, remaining usage. It never
// touches used_count.
func ValidateDiscount(db *gorm.DB, code string, now time.Time) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	if err := db.Where("code = ?", code).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	if !discount.IsActive {
		return nil, ErrDiscountInactive
	}
	if now.After(discount.ExpiryDate) {
		return nil, ErrDiscountExpired
	}
	if discount.UsedCount >= discount.UsageLimit {
		return nil, ErrDiscountLimitReached
	}
	return &discount, nil
}

// ConsumeDiscount validates the code and claims one usage. The increment is
// guarded by used_count < usage_limit in the same statement, so two requests
// racing for the last unit cannot both succeed: the loser sees zero rows
// affected and gets ErrDiscountLimitReached.
func ConsumeDiscount(tx *gorm.DB, code string, now time.Time) (*models.DiscountCode, error) {
	discount, err := ValidateDiscount(tx, code, now)
	if err != nil {
		return nil, err
	}
	res := tx.Model(&models.DiscountCode{}).
		Where("id = ? AND used_count < usage_limit", discount.ID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrDiscountLimitReached
	}
	discount.UsedCount++
	return discount, nil
}
