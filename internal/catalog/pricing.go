package catalog

import (
	"github.com/shopspring/decimal"

	"agrilink/internal/models"
	"agrilink/internal/money"
)

// isOnSale reports whether a product is sold below its reference price.
func isOnSale(price, originalPrice int64) bool {
	return price > 0 && originalPrice > price
}

// SavingsPercent is the whole-percent reduction from originalPrice to price,
// or zero when the product is not on sale.
func SavingsPercent(price, originalPrice int64) int64 {
	if !isOnSale(price, originalPrice) {
		return 0
	}
	saved := decimal.NewFromInt(originalPrice - price)
	return money.Round(saved.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(originalPrice)))
}

// decorate fills the derived availability and sale flags.
func decorate(p models.Product) models.Product {
	p.InStock = p.IsActive && p.StockQuantity > 0
	p.IsOnSale = isOnSale(p.Price, p.OriginalPrice)
	p.SavingsPct = SavingsPercent(p.Price, p.OriginalPrice)
	return p
}
