// Package ledger owns every mutation of the three shared counters: product
// stock, discount usage, and referral credit balances. No other code path
// writes them. Each mutation is a single conditional UPDATE so the check and
// the write cannot be split by a concurrent writer.
package ledger

import (
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// ReserveStock decrements a product's stock by qty, failing if fewer than qty
// units remain. Check and decrement happen in one statement; callers run it
// inside the settlement transaction so a later failure releases the units.
func ReserveStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return &InsufficientStockError{ProductID: productID}
	}
	return nil
}
