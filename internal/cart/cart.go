// Package cart holds the shopping cart aggregate: its lines, the active
// discount code and the summary derived from both.
package cart

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/models"
	"agrilink/internal/money"
)

var lineNamespace = uuid.MustParse("6f1c2b8e-4a53-4d0b-9a7e-0b5e2f3c9d41")

type Pricing struct {
	TaxRatePercent        decimal.Decimal
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRatePercent:        decimal.NewFromInt(18),
		FreeShippingThreshold: 100000,
		FlatShippingFee:       5000,
	}
}

// Cart is not safe for concurrent use; callers serialize access per owner.
type Cart struct {
	pricing  Pricing
	lines    []models.CartLine
	discount *models.DiscountCode
	version  uint64
}

func New(pricing Pricing) *Cart {
	return &Cart{pricing: pricing}
}

// Restore rebuilds a cart from persisted lines. Subtotals are recomputed from
// the stored unit price and quantity; lines with a non-positive quantity are dropped.
func Restore(pricing Pricing, lines []models.CartLine) *Cart {
	c := New(pricing)
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		line.Subtotal = money.Multiply(line.UnitPrice, line.Quantity)
		c.lines = append(c.lines, cloneLine(line))
	}
	sort.SliceStable(c.lines, func(i, j int) bool {
		return c.lines[i].AddedAt.Before(c.lines[j].AddedAt)
	})
	return c
}

// LineID derives the merge key for a product and its selections. Map key
// order does not matter; nil and empty selections are equivalent.
func LineID(productID primitive.ObjectID, variants, options map[string]string) string {
	key := productID.Hex() + "-" + canonical(variants) + "-" + canonical(options)
	return uuid.NewSHA1(lineNamespace, []byte(key)).String()
}

func canonical(selection map[string]string) string {
	if len(selection) == 0 {
		return "{}"
	}
	// encoding/json writes map keys in sorted order
	raw, _ := json.Marshal(selection)
	return string(raw)
}

func (c *Cart) Pricing() Pricing {
	return c.pricing
}

// Version increases with every mutation.
func (c *Cart) Version() uint64 {
	return c.version
}

func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	for i, line := range c.lines {
		out[i] = cloneLine(line)
	}
	return out
}

func (c *Cart) Line(lineID string) (models.CartLine, bool) {
	if i := c.indexOf(lineID); i >= 0 {
		return cloneLine(c.lines[i]), true
	}
	return models.CartLine{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Add puts quantity units of product into the cart and returns the affected
// line. The unit price is captured now; merging into an existing line keeps
// the price captured when that line was first added.
func (c *Cart) Add(product models.Product, quantity int, variants, options map[string]string) (models.CartLine, error) {
	if quantity <= 0 {
		return models.CartLine{}, ErrInvalidQuantity
	}

	id := LineID(product.ID, variants, options)
	if i := c.indexOf(id); i >= 0 {
		line := &c.lines[i]
		line.Quantity += quantity
		line.Subtotal = money.Multiply(line.UnitPrice, line.Quantity)
		c.version++
		return cloneLine(*line), nil
	}

	unitPrice := product.UnitPrice(variants)
	line := models.CartLine{
		ID:        id,
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Supplier:  product.Supplier,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Variants:  copySelection(variants),
		Options:   copySelection(options),
		Subtotal:  money.Multiply(unitPrice, quantity),
		AddedAt:   time.Now().UTC(),
	}
	c.lines = append(c.lines, line)
	c.version++
	return cloneLine(line), nil
}

// Remove deletes a line. Removing an unknown line is a no-op and reports false.
func (c *Cart) Remove(lineID string) bool {
	i := c.indexOf(lineID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.version++
	return true
}

// SetQuantity replaces a line's quantity. A quantity of zero or less removes
// the line, exactly like Remove.
func (c *Cart) SetQuantity(lineID string, quantity int) (models.CartLine, error) {
	if quantity <= 0 {
		c.Remove(lineID)
		return models.CartLine{}, nil
	}
	i := c.indexOf(lineID)
	if i < 0 {
		return models.CartLine{}, ErrLineNotFound
	}
	line := &c.lines[i]
	line.Quantity = quantity
	line.Subtotal = money.Multiply(line.UnitPrice, quantity)
	c.version++
	return cloneLine(*line), nil
}

// Clear drops every line and the active discount.
func (c *Cart) Clear() {
	c.lines = nil
	c.discount = nil
	c.version++
}

// ApplyDiscount resolves code against catalog and makes it the active
// discount, replacing any previous one. The cart is unchanged on error.
func (c *Cart) ApplyDiscount(ctx context.Context, catalog DiscountCatalog, code string) (models.DiscountCode, error) {
	found, err := catalog.Lookup(ctx, code)
	if err != nil {
		return models.DiscountCode{}, err
	}

	subtotal := c.subtotal()
	if subtotal < found.MinimumAmount {
		return models.DiscountCode{}, &BelowMinimumError{
			Code:     found.Code,
			Minimum:  found.MinimumAmount,
			Subtotal: subtotal,
		}
	}

	c.discount = &found
	c.version++
	return found, nil
}

func (c *Cart) RemoveDiscount() {
	if c.discount == nil {
		return
	}
	c.discount = nil
	c.version++
}

// Discount returns the active discount code, if any.
func (c *Cart) Discount() (models.DiscountCode, bool) {
	if c.discount == nil {
		return models.DiscountCode{}, false
	}
	return *c.discount, true
}

// Summary recomputes the monetary breakdown from the current lines and
// discount. It has no side effects.
func (c *Cart) Summary() models.CartSummary {
	var s models.CartSummary
	for _, line := range c.lines {
		s.ItemCount += line.Quantity
		s.Subtotal += line.Subtotal
	}

	if c.discount != nil {
		s.DiscountAmount = c.discount.AmountFor(s.Subtotal)
	}
	if s.Subtotal < c.pricing.FreeShippingThreshold {
		s.ShippingCost = c.pricing.FlatShippingFee
	}
	s.Tax = money.Tax(s.Subtotal-s.DiscountAmount, c.pricing.TaxRatePercent)

	s.Total = s.Subtotal + s.Tax + s.ShippingCost - s.DiscountAmount
	if s.Total < 0 {
		s.Total = 0
	}
	return s
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Contains reports whether any line references productID.
func (c *Cart) Contains(productID primitive.ObjectID) bool {
	_, ok := c.LineForProduct(productID)
	return ok
}

// LineForProduct returns the first line for productID regardless of selections.
func (c *Cart) LineForProduct(productID primitive.ObjectID) (models.CartLine, bool) {
	for _, line := range c.lines {
		if line.ProductID == productID {
			return cloneLine(line), true
		}
	}
	return models.CartLine{}, false
}

// Clone returns an independent deep copy sharing no mutable state.
func (c *Cart) Clone() *Cart {
	out := &Cart{pricing: c.pricing, version: c.version}
	if c.lines != nil {
		out.lines = make([]models.CartLine, len(c.lines))
		for i, line := range c.lines {
			out.lines[i] = cloneLine(line)
		}
	}
	if c.discount != nil {
		d := *c.discount
		out.discount = &d
	}
	return out
}

func (c *Cart) subtotal() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal
	}
	return total
}

func (c *Cart) indexOf(lineID string) int {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func cloneLine(line models.CartLine) models.CartLine {
	line.Variants = copySelection(line.Variants)
	line.Options = copySelection(line.Options)
	return line
}

func copySelection(selection map[string]string) map[string]string {
	if len(selection) == 0 {
		return nil
	}
	out := make(map[string]string, len(selection))
	for k, v := range selection {
		out[k] = v
	}
	return out
}
