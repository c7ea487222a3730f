package usecase

import (
	"math"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// Tax is applied to the discounted subtotal.
const taxPermille = 90 // 9%

// Subtotal sums unit price times quantity over the cart snapshot.
func Subtotal(items []model.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.Price * int64(item.Quantity)
	}
	return sum
}

// Discount returns floor(subtotal * rate). The rate is converted to
// basis points first so amounts stay in exact integer arithmetic.
func Discount(subtotal int64, rate float64) int64 {
	bp := int64(math.Round(rate * 10000))
	return subtotal * bp / 10000
}

// Tax returns floor(amount * 9%).
func Tax(amount int64) int64 {
	return amount * taxPermille / 1000
}

// Price derives the full pricing block from a cart snapshot. Amounts
// are computed once at order creation and never recomputed implicitly.
func Price(items []model.CartItem, discountRate float64) model.Pricing {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, discountRate)
	tax := Tax(subtotal - discount)
	return model.Pricing{
		Subtotal:     subtotal,
		DiscountRate: discountRate,
		Discount:     discount,
		Tax:          tax,
		Total:        subtotal - discount + tax,
	}
}
