package checkout

import "github.com/shopspring/decimal"

// Line is one priced cart line fed into the calculator. UnitPrice is the
// live catalog price for previews and the captured price at settlement.
type Line struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CreditApplied  decimal.Decimal `json:"credit_applied"`
	Total          decimal.Decimal `json:"total"`
}

// Price computes subtotal, discount, credit redemption, and final total.
// Ordering is fixed: the percentage discount applies first, then credits
// cover at most the post-discount remainder, so the total never goes
// negative and unused credit stays with the user.
func Price(lines []Line, discountPct int, availableCredit decimal.Decimal, redeemCredits bool) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discount := decimal.Zero
	if discountPct > 0 {
		discount = subtotal.
			Mul(decimal.NewFromInt(int64(discountPct))).
			Div(decimal.NewFromInt(100)).
			Round(2)
	}

	remainder := subtotal.Sub(discount)
	credit := decimal.Zero
	if redeemCredits && remainder.IsPositive() {
		credit = decimal.Min(availableCredit, remainder)
		if credit.IsNegative() {
			credit = decimal.Zero
		}
	}

	total := subtotal.Sub(discount).Sub(credit)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		CreditApplied:  credit,
		Total:          total,
	}
}
