// Package checkout converts a mutable cart into an immutable order. The
// settlement transaction is the only place where stock, discount usage, and
// credit balances move together; any failure rolls the whole attempt back so
// the caller can simply retry.
package checkout

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/ledger"
	"github.com/junaidrashid-git/storefront-api/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("cart line quantity must be at least 1")
)

// SettlementRequest carries the caller-supplied checkout input. The payment
// method is an opaque label; no gateway is involved.
type SettlementRequest struct {
	ShippingAddress string
	PaymentMethod   string
	DiscountCode    string
	UseCredits      bool
}

type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// loadCart reads the user's cart lines joined with live products. A missing
// cart and an empty one are the same thing to settlement.
func (e *Engine) loadCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range cart.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if item.Product.ID == 0 {
			return nil, ledger.ErrProductNotFound
		}
	}
	return &cart, nil
}

// Quote prices the current cart without mutating anything: the discount code
// is validated read-only and the credit balance is only read. Used for the
// checkout preview; Settle re-validates everything authoritatively.
func (e *Engine) Quote(userID uint, discountCode string, useCredits bool) (*Quote, error) {
	cart, err := e.loadCart(e.db, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
		})
	}

	pct := 0
	if discountCode != "" {
		discount, err := ledger.ValidateDiscount(e.db, discountCode, e.now())
		if err != nil {
			return nil, err
		}
		pct = discount.DiscountPercentage
	}

	credit := decimal.Zero
	if useCredits {
		var user models.User
		if err := e.db.Select("id", "credit_balance").First(&user, userID).Error; err != nil {
			return nil, err
		}
		credit = user.CreditBalance
	}

	quote := Price(lines, pct, credit, useCredits)
	return &quote, nil
}

// Settle atomically turns the user's cart into an order: reserve stock per
// line, consume the discount code, debit credits, materialize the order with
// prices captured inside the transaction, and clear the cart. Every mutation
// happens in one transaction, so a failed attempt leaves no residue and a
// retry starts clean.
func (e *Engine) Settle(userID uint, req SettlementRequest) (*models.Order, error) {
	// Short-circuit before touching any counter.
	if _, err := e.loadCart(e.db, userID); err != nil {
		return nil, err
	}

	var order *models.Order
	err := e.db.Transaction(func(tx *gorm.DB) error {
		cart, err := e.loadCart(tx, userID)
		if err != nil {
			return err
		}

		lines := make([]Line, 0, len(cart.Items))
		for _, item := range cart.Items {
			if err := ledger.ReserveStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			lines = append(lines, Line{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
			})
		}

		pct := 0
		if req.DiscountCode != "" {
			discount, err := ledger.ConsumeDiscount(tx, req.DiscountCode, e.now())
			if err != nil {
				return err
			}
			pct = discount.DiscountPercentage
		}

		quote := Price(lines, pct, decimal.Zero, false)

		credit := decimal.Zero
		if req.UseCredits {
			credit, err = ledger.DebitCredits(tx, userID, quote.Subtotal.Sub(quote.DiscountAmount))
			if err != nil {
				return err
			}
		}

		total := quote.Subtotal.Sub(quote.DiscountAmount).Sub(credit)
		if total.IsNegative() {
			total = decimal.Zero
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
			})
		}

		o := models.Order{
			UserID:          userID,
			Items:           items,
			TotalAmount:     total,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Status:          models.OrderStatusPending,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		res := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		// A concurrent settlement of the same cart already consumed these
		// lines; abort so only one order materializes per cart fill.
		if res.RowsAffected != int64(len(cart.Items)) {
			return ErrEmptyCart
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
