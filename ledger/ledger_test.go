package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/junaidrashid-git/storefront-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection makes concurrent transactions serialize at the
	// storage boundary, like row locks would on a real server.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DiscountCode{},
		&models.Referral{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, balance decimal.Decimal) *models.User {
	t.Helper()
	user := models.User{
		Name:          "Test User",
		Email:         email,
		Password:      "hashed",
		Role:          models.RoleUser,
		ReferralCode:  models.GenerateReferralCode(),
		CreditBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

// -------- Stock Ledger --------

func TestReserveStockDecrements(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Widget", "9.99", 5)

	require.NoError(t, ReserveStock(db, product.ID, 3))

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 2, got.Stock)
}

func TestReserveStockInsufficient(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Widget", "9.99", 2)

	err := ReserveStock(db, product.ID, 3)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 2, got.Stock, "failed reservation must not touch stock")
}

func TestReserveStockUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	assert.ErrorIs(t, ReserveStock(db, 4242, 1), ErrProductNotFound)
}

func TestReserveStockConcurrentNeverOversells(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Widget", "9.99", 5)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.Transaction(func(tx *gorm.DB) error {
				return ReserveStock(tx, product.ID, 1)
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	var stockErr *InsufficientStockError
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorAs(t, err, &stockErr)
	}
	assert.Equal(t, 5, successes, "exactly stock-many reservations may win")

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 0, got.Stock, "stock never goes negative")
}

// -------- Discount Registry --------

func seedDiscount(t *testing.T, db *gorm.DB, code string, pct, limit, used int, active bool, expiry time.Time) *models.DiscountCode {
	t.Helper()
	discount := models.DiscountCode{
		Code:               code,
		DiscountPercentage: pct,
		ExpiryDate:         expiry,
		IsActive:           active,
		UsageLimit:         limit,
		UsedCount:          used,
	}
	require.NoError(t, db.Create(&discount).Error)
	return &discount
}

func TestValidateDiscount(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	future := now.Add(24 * time.Hour)

	seedDiscount(t, db, "OK10", 10, 5, 0, true, future)
	seedDiscount(t, db, "OFF", 10, 5, 0, false, future)
	seedDiscount(t, db, "OLD", 10, 5, 0, true, now.Add(-time.Hour))
	seedDiscount(t, db, "FULL", 10, 5, 5, true, future)

	snap, err := ValidateDiscount(db, "OK10", now)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.DiscountPercentage)

	_, err = ValidateDiscount(db, "NOPE", now)
	assert.ErrorIs(t, err, ErrDiscountNotFound)

	_, err = ValidateDiscount(db, "OFF", now)
	assert.ErrorIs(t, err, ErrDiscountInactive)

	_, err = ValidateDiscount(db, "OLD", now)
	assert.ErrorIs(t, err, ErrDiscountExpired)

	_, err = ValidateDiscount(db, "FULL", now)
	assert.ErrorIs(t, err, ErrDiscountLimitReached)
}

func TestValidateDiscountDoesNotConsume(t *testing.T) {
	db := newTestDB(t)
	discount := seedDiscount(t, db, "OK10", 10, 5, 0, true, time.Now().Add(time.Hour))

	for i := 0; i < 3; i++ {
		_, err := ValidateDiscount(db, "OK10", time.Now())
		require.NoError(t, err)
	}

	var got models.DiscountCode
	require.NoError(t, db.First(&got, discount.ID).Error)
	assert.Equal(t, 0, got.UsedCount)
}

func TestConsumeDiscountIncrements(t *testing.T) {
	db := newTestDB(t)
	discount := seedDiscount(t, db, "SAVE20", 20, 3, 0, true, time.Now().Add(time.Hour))

	snap, err := ConsumeDiscount(db, "SAVE20", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 20, snap.DiscountPercentage)

	var got models.DiscountCode
	require.NoError(t, db.First(&got, discount.ID).Error)
	assert.Equal(t, 1, got.UsedCount)
}

func TestConsumeDiscountLimitRace(t *testing.T) {
	db := newTestDB(t)
	discount := seedDiscount(t, db, "LAST1", 15, 1, 0, true, time.Now().Add(time.Hour))

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.Transaction(func(tx *gorm.DB) error {
				_, err := ConsumeDiscount(tx, "LAST1", time.Now())
				return err
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrDiscountLimitReached)
		}
	}
	assert.Equal(t, 1, successes, "only one redemption may claim the last unit")

	var got models.DiscountCode
	require.NoError(t, db.First(&got, discount.ID).Error)
	assert.Equal(t, 1, got.UsedCount, "used_count never exceeds usage_limit")
}

// -------- Referral Credit Ledger --------

func TestDebitCreditsBounded(t *testing.T) {
	db := newTestDB(t)

	user := seedUser(t, db, "a@example.com", decimal.NewFromInt(30))
	applied, err := DebitCredits(db, user.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "30.00", applied.StringFixed(2))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, "0.00", got.CreditBalance.StringFixed(2))

	rich := seedUser(t, db, "b@example.com", decimal.NewFromInt(150))
	applied, err = DebitCredits(db, rich.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "100.00", applied.StringFixed(2))

	got = models.User{}
	require.NoError(t, db.First(&got, rich.ID).Error)
	assert.Equal(t, "50.00", got.CreditBalance.StringFixed(2))
}

func TestDebitCreditsZeroLimit(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com", decimal.NewFromInt(30))

	applied, err := DebitCredits(db, user.ID, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, applied.IsZero())
}

func TestDebitCreditsConcurrentNoDoubleSpend(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com", decimal.NewFromInt(50))

	const attempts = 4
	var wg sync.WaitGroup
	amounts := make([]decimal.Decimal, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = db.Transaction(func(tx *gorm.DB) error {
				applied, err := DebitCredits(tx, user.ID, decimal.NewFromInt(50))
				if err != nil {
					return err
				}
				amounts[i] = applied
				return nil
			})
		}(i)
	}
	wg.Wait()

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	assert.Equal(t, "50.00", total.StringFixed(2), "debits never exceed the starting balance")

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, "0.00", got.CreditBalance.StringFixed(2))
	assert.False(t, got.CreditBalance.IsNegative())
}

func TestApplySignupReferral(t *testing.T) {
	db := newTestDB(t)
	referrer := seedUser(t, db, "referrer@example.com", decimal.Zero)
	newcomer := seedUser(t, db, "newcomer@example.com", decimal.Zero)

	require.NoError(t, ApplySignupReferral(db, newcomer.ID, referrer.ReferralCode))

	var gotReferrer, gotNewcomer models.User
	require.NoError(t, db.First(&gotReferrer, referrer.ID).Error)
	require.NoError(t, db.First(&gotNewcomer, newcomer.ID).Error)
	assert.Equal(t, "50.00", gotReferrer.CreditBalance.StringFixed(2))
	assert.Equal(t, "50.00", gotNewcomer.CreditBalance.StringFixed(2))

	var referral models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", newcomer.ID).First(&referral).Error)
	assert.Equal(t, referrer.ID, referral.ReferrerID)
	assert.Equal(t, models.ReferralStatusCompleted, referral.Status)
}

func TestApplySignupReferralUnmatchedCodeIsSilent(t *testing.T) {
	db := newTestDB(t)
	newcomer := seedUser(t, db, "newcomer@example.com", decimal.Zero)

	require.NoError(t, ApplySignupReferral(db, newcomer.ID, "REF-DOESNOTEXIST"))

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	assert.Zero(t, count)

	var got models.User
	require.NoError(t, db.First(&got, newcomer.ID).Error)
	assert.Equal(t, "0.00", got.CreditBalance.StringFixed(2))
}

func TestApplySignupReferralEmptyCodeIsSilent(t *testing.T) {
	db := newTestDB(t)
	newcomer := seedUser(t, db, "newcomer@example.com", decimal.Zero)

	require.NoError(t, ApplySignupReferral(db, newcomer.ID, ""))

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplySignupReferralAtMostOncePerUser(t *testing.T) {
	db := newTestDB(t)
	referrer := seedUser(t, db, "referrer@example.com", decimal.Zero)
	newcomer := seedUser(t, db, "newcomer@example.com", decimal.Zero)

	require.NoError(t, ApplySignupReferral(db, newcomer.ID, referrer.ReferralCode))
	require.NoError(t, ApplySignupReferral(db, newcomer.ID, referrer.ReferralCode))

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Where("referred_user_id = ?", newcomer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var gotReferrer models.User
	require.NoError(t, db.First(&gotReferrer, referrer.ID).Error)
	assert.Equal(t, "50.00", gotReferrer.CreditBalance.StringFixed(2), "replay must not double-credit")
}

func TestApplySignupReferralOwnCodeIsSilent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "loner@example.com", decimal.Zero)

	require.NoError(t, ApplySignupReferral(db, user.ID, user.ReferralCode))

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Keep errors package honest about formatting.
func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductID: 7}
	assert.Equal(t, "insufficient stock for product 7", err.Error())
	var target *InsufficientStockError
	assert.True(t, errors.As(fmt.Errorf("settle: %w", err), &target))
}
