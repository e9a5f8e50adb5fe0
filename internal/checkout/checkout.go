// Package checkout implements the linear shipping -> payment -> review ->
// complete flow with per-step validation and a guard against duplicate
// order submission.
package checkout

import "agrilink/internal/models"

var addressFields = []string{"shippingAddress", "firstName", "lastName", "address", "city", "region", "phone", "postalCode"}

// Checkout is the transient checkout state of one shopper. It is not safe for
// concurrent use.
type Checkout struct {
	step         Step
	address      *models.ShippingAddress
	payment      *models.PaymentMethod
	shipping     *models.ShippingMethod
	discountCode string
	processing   bool
	errors       map[string]string
	lastOrder    string

	// epoch changes on every Reset so a submission started before it can be
	// recognised as stale.
	epoch uint64
}

func New() *Checkout {
	return &Checkout{errors: map[string]string{}}
}

// State is a read-only view of the checkout.
type State struct {
	Step            Step                    `json:"step"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   *models.PaymentMethod   `json:"paymentMethod,omitempty"`
	ShippingMethod  *models.ShippingMethod  `json:"shippingMethod,omitempty"`
	DiscountCode    string                  `json:"discountCode,omitempty"`
	Processing      bool                    `json:"processing"`
	Errors          map[string]string       `json:"errors"`
	LastOrderNumber string                  `json:"lastOrderNumber,omitempty"`
}

func (c *Checkout) State() State {
	s := State{
		Step:            c.step,
		DiscountCode:    c.discountCode,
		Processing:      c.processing,
		Errors:          c.Errors(),
		LastOrderNumber: c.lastOrder,
	}
	if c.address != nil {
		a := *c.address
		s.ShippingAddress = &a
	}
	if c.payment != nil {
		p := *c.payment
		s.PaymentMethod = &p
	}
	if c.shipping != nil {
		m := *c.shipping
		m.Regions = append([]string(nil), c.shipping.Regions...)
		s.ShippingMethod = &m
	}
	return s
}

func (c *Checkout) Step() Step {
	return c.step
}

func (c *Checkout) Processing() bool {
	return c.processing
}

func (c *Checkout) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// The selection setters and Retreat return ErrAlreadyProcessing while an
// order is being placed; the submitted selections stay on display until
// Finish.

func (c *Checkout) SetShippingAddress(address models.ShippingAddress) error {
	if c.processing {
		return ErrAlreadyProcessing
	}
	normalized := address.Normalized()
	c.address = &normalized
	c.clearErrors(addressFields...)
	return nil
}

func (c *Checkout) SetPaymentMethod(method models.PaymentMethod) error {
	if c.processing {
		return ErrAlreadyProcessing
	}
	c.payment = &method
	c.clearErrors("paymentMethod", "accountNumber")
	return nil
}

func (c *Checkout) SetShippingMethod(method models.ShippingMethod) error {
	if c.processing {
		return ErrAlreadyProcessing
	}
	c.shipping = &method
	c.clearErrors("shippingMethod")
	return nil
}

func (c *Checkout) SetDiscountCode(code string) {
	c.discountCode = code
}

// Advance validates the data the current step requires and moves exactly one
// step forward. On failure the step is unchanged and the returned
// *ValidationError names every invalid field. The review step is left only
// by placing an order.
func (c *Checkout) Advance() error {
	var fields map[string]string
	switch c.step {
	case StepShipping:
		fields = validateAddress(c.address)
	case StepPayment:
		fields = validatePayment(c.payment)
	default:
		return ErrNoNextStep
	}

	if len(fields) > 0 {
		c.recordErrors(fields)
		return &ValidationError{Fields: fields}
	}
	c.moveTo(c.step + 1)
	return nil
}

// Retreat moves exactly one step back without validation.
func (c *Checkout) Retreat() error {
	if c.processing {
		return ErrAlreadyProcessing
	}
	if c.step == StepShipping {
		return ErrNoPreviousStep
	}
	c.moveTo(c.step - 1)
	return nil
}

// Reset discards every selection and returns to the shipping step. A
// submission begun before the reset can no longer finish.
func (c *Checkout) Reset() {
	c.step = StepShipping
	c.address = nil
	c.payment = nil
	c.shipping = nil
	c.discountCode = ""
	c.processing = false
	c.errors = map[string]string{}
	c.lastOrder = ""
	c.epoch++
}

// Submission is the set of selections captured when an order submission
// begins.
type Submission struct {
	epoch           uint64
	ShippingAddress models.ShippingAddress
	PaymentMethod   models.PaymentMethod
	ShippingMethod  models.ShippingMethod
	DiscountCode    string
}

// Begin starts an order submission from the review step and sets the
// processing flag. Every call must be paired with Finish.
func (c *Checkout) Begin() (Submission, error) {
	if c.processing {
		return Submission{}, ErrAlreadyProcessing
	}
	if c.step != StepReview {
		return Submission{}, ErrNotReviewing
	}

	fields := map[string]string{}
	for _, errs := range []map[string]string{
		validateAddress(c.address),
		validatePayment(c.payment),
		validateShippingMethod(c.shipping),
	} {
		for k, v := range errs {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		c.recordErrors(fields)
		return Submission{}, &ValidationError{Fields: fields}
	}

	c.processing = true
	return Submission{
		epoch:           c.epoch,
		ShippingAddress: *c.address,
		PaymentMethod:   *c.payment,
		ShippingMethod:  *c.shipping,
		DiscountCode:    c.discountCode,
	}, nil
}

// Finish ends a submission. When the checkout was reset in the meantime the
// result is discarded and Finish reports false. A successful placement moves
// the checkout to the complete step with its selections cleared.
func (c *Checkout) Finish(sub Submission, orderNumber string, placed bool) bool {
	if sub.epoch != c.epoch {
		return false
	}
	c.processing = false
	if !placed || c.step != StepReview {
		return true
	}

	c.address = nil
	c.payment = nil
	c.shipping = nil
	c.discountCode = ""
	c.lastOrder = orderNumber
	c.moveTo(StepComplete)
	return true
}

func (c *Checkout) moveTo(step Step) {
	c.step = step
	c.errors = map[string]string{}
}

func (c *Checkout) recordErrors(fields map[string]string) {
	for k, v := range fields {
		c.errors[k] = v
	}
}

func (c *Checkout) clearErrors(fields ...string) {
	for _, f := range fields {
		delete(c.errors, f)
	}
}
