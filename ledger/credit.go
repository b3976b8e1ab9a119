package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// ReferralBonus is credited to both sides of a qualifying referral at signup.
var ReferralBonus = decimal.NewFromInt(50)

const debitRetries = 3

// DebitCredits withdraws min(balance, limit) from the user's credit balance
// and returns the amount actually debited. The decrement is guarded by
// credit_balance >= amount in the same statement; if a concurrent debit wins
// the race the balance is re-read and the amount recomputed. Runs inside the
// settlement transaction so a failed order never keeps the debit.
func DebitCredits(tx *gorm.DB, userID uint, limit decimal.Decimal) (decimal.Decimal, error) {
	if !limit.IsPositive() {
		return decimal.Zero, nil
	}
	for attempt := 0; attempt < debitRetries; attempt++ {
		var user models.User
		if err := tx.Select("id", "credit_balance").First(&user, userID).Error; err != nil {
			return decimal.Zero, err
		}
		amount := decimal.Min(user.CreditBalance, limit)
		if !amount.IsPositive() {
			return decimal.Zero, nil
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND credit_balance >= ?", userID, amount).
			UpdateColumn("credit_balance", gorm.Expr("credit_balance - ?", amount))
		if res.Error != nil {
			return decimal.Zero, res.Error
		}
		if res.RowsAffected == 1 {
			return amount, nil
		}
	}
	return decimal.Zero, ErrCreditConflict
}

// ApplySignupReferral seeds credit for a qualifying referral: the referrer
// gains the bonus, the new user's balance becomes the bonus, and a completed
// Referral row links the two. An empty or unmatched code is not an error;
// signup simply proceeds without a referral. A user can be referred at most
// once, so a replayed signup is a no-op.
func ApplySignupReferral(db *gorm.DB, newUserID uint, suppliedCode string) error {
	if suppliedCode == "" {
		return nil
	}
	var referrer models.User
	err := db.Select("id", "referral_code").
		Where("referral_code = ? AND id <> ?", suppliedCode, newUserID).
		First(&referrer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Referral{}).
			Where("referred_user_id = ?", newUserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		referral := models.Referral{
			ReferrerID:     referrer.ID,
			ReferredUserID: newUserID,
			Status:         models.ReferralStatusCompleted,
		}
		if err := tx.Create(&referral).Error; err != nil {
			return err
		}
		if err := creditBalance(tx, referrer.ID, ReferralBonus); err != nil {
			return err
		}
		return creditBalance(tx, newUserID, ReferralBonus)
	})
}

func creditBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
