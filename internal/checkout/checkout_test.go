package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrilink/internal/models"
)

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName: "Asha",
		LastName:  "Mwinyi",
		Address:   "Plot 12, Mikocheni",
		City:      "Dar es Salaam",
		Region:    "Dar es Salaam",
		Phone:     "0712 345 678",
	}
}

func mpesa(account string) models.PaymentMethod {
	m, _ := PaymentMethodByID("mpesa")
	m.AccountNumber = account
	return m
}

func standard() models.ShippingMethod {
	m, _ := ShippingMethodByID("standard")
	return m
}

func toReview(t *testing.T) *Checkout {
	t.Helper()
	c := New()
	c.SetShippingAddress(validAddress())
	c.SetShippingMethod(standard())
	require.NoError(t, c.Advance())
	c.SetPaymentMethod(mpesa("0754000111"))
	require.NoError(t, c.Advance())
	require.Equal(t, StepReview, c.Step())
	return c
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestAdvanceWithoutAddressFails(t *testing.T) {
	c := New()
	err := c.Advance()

	fields := validationFields(t, err)
	assert.Equal(t, "Shipping address is required", fields["shippingAddress"])
	assert.Equal(t, StepShipping, c.Step())
	assert.Equal(t, "Shipping address is required", c.Errors()["shippingAddress"])
}

func TestAdvanceReportsEveryInvalidAddressField(t *testing.T) {
	c := New()
	c.SetShippingAddress(models.ShippingAddress{FirstName: "  ", Phone: "12345"})

	fields := validationFields(t, c.Advance())
	assert.Equal(t, map[string]string{
		"firstName": "First name is required",
		"lastName":  "Last name is required",
		"address":   "Address is required",
		"city":      "City is required",
		"region":    "Region is required",
		"phone":     "Please enter a valid Tanzanian phone number",
	}, fields)
	assert.Equal(t, StepShipping, c.Step())
}

func TestMissingPhoneIsRequired(t *testing.T) {
	c := New()
	a := validAddress()
	a.Phone = ""
	c.SetShippingAddress(a)

	fields := validationFields(t, c.Advance())
	assert.Equal(t, map[string]string{"phone": "Phone number is required"}, fields)
}

func TestSettingAddressClearsItsErrors(t *testing.T) {
	c := New()
	require.Error(t, c.Advance())
	require.NotEmpty(t, c.Errors())

	c.SetShippingAddress(validAddress())
	assert.Empty(t, c.Errors())
	require.NoError(t, c.Advance())
	assert.Equal(t, StepPayment, c.Step())
}

func TestValidPhone(t *testing.T) {
	for _, phone := range []string{"0712345678", "+255712345678", "0612 345 678", "+255 754 000 111"} {
		assert.True(t, ValidPhone(phone), phone)
	}
	for _, phone := range []string{"", "0812345678", "071234567", "+254712345678", "07123456789"} {
		assert.False(t, ValidPhone(phone), phone)
	}
}

func TestPaymentStepValidation(t *testing.T) {
	c := New()
	c.SetShippingAddress(validAddress())
	require.NoError(t, c.Advance())

	fields := validationFields(t, c.Advance())
	assert.Equal(t, map[string]string{"paymentMethod": "Payment method is required"}, fields)

	c.SetPaymentMethod(mpesa(""))
	assert.Empty(t, c.Errors())
	fields = validationFields(t, c.Advance())
	assert.Equal(t, map[string]string{"accountNumber": "Mobile money number is required"}, fields)
	assert.Equal(t, StepPayment, c.Step())

	c.SetPaymentMethod(models.PaymentMethod{ID: "x", Type: "cheque"})
	fields = validationFields(t, c.Advance())
	assert.Equal(t, "Payment method is not supported", fields["paymentMethod"])

	cod, _ := PaymentMethodByID("cod")
	c.SetPaymentMethod(cod)
	require.NoError(t, c.Advance())
	assert.Equal(t, StepReview, c.Step())
	assert.Empty(t, c.Errors())
}

func TestAdvanceFromReviewRequiresPlacement(t *testing.T) {
	c := toReview(t)
	assert.ErrorIs(t, c.Advance(), ErrNoNextStep)
	assert.Equal(t, StepReview, c.Step())
}

func TestRetreat(t *testing.T) {
	c := toReview(t)
	require.NoError(t, c.Retreat())
	assert.Equal(t, StepPayment, c.Step())
	require.NoError(t, c.Retreat())
	assert.Equal(t, StepShipping, c.Step())
	assert.ErrorIs(t, c.Retreat(), ErrNoPreviousStep)
}

func TestRetreatClearsErrors(t *testing.T) {
	c := New()
	c.SetShippingAddress(validAddress())
	require.NoError(t, c.Advance())
	require.Error(t, c.Advance())
	require.NotEmpty(t, c.Errors())

	require.NoError(t, c.Retreat())
	assert.Empty(t, c.Errors())
}

func TestBeginRequiresReviewStep(t *testing.T) {
	c := New()
	_, err := c.Begin()
	assert.ErrorIs(t, err, ErrNotReviewing)
	assert.False(t, c.Processing())
}

func TestBeginRequiresShippingMethod(t *testing.T) {
	c := New()
	c.SetShippingAddress(validAddress())
	require.NoError(t, c.Advance())
	c.SetPaymentMethod(mpesa("0754000111"))
	require.NoError(t, c.Advance())

	_, err := c.Begin()
	fields := validationFields(t, err)
	assert.Equal(t, "Shipping method is required", fields["shippingMethod"])
	assert.False(t, c.Processing())
}

func TestBeginRejectsDuplicateSubmission(t *testing.T) {
	c := toReview(t)
	sub, err := c.Begin()
	require.NoError(t, err)
	assert.True(t, c.Processing())
	assert.Equal(t, "Asha", sub.ShippingAddress.FirstName)
	assert.Equal(t, "0712 345 678", sub.ShippingAddress.Phone)

	_, err = c.Begin()
	assert.ErrorIs(t, err, ErrAlreadyProcessing)
	assert.True(t, c.Processing())
}

func TestSelectionsAreFrozenWhileProcessing(t *testing.T) {
	c := toReview(t)
	sub, err := c.Begin()
	require.NoError(t, err)

	assert.ErrorIs(t, c.Retreat(), ErrAlreadyProcessing)
	moved := validAddress()
	moved.City = "Arusha"
	assert.ErrorIs(t, c.SetShippingAddress(moved), ErrAlreadyProcessing)
	assert.ErrorIs(t, c.SetPaymentMethod(mpesa("0765000222")), ErrAlreadyProcessing)
	assert.ErrorIs(t, c.SetShippingMethod(standard()), ErrAlreadyProcessing)

	state := c.State()
	assert.Equal(t, StepReview, state.Step)
	assert.Equal(t, "Dar es Salaam", state.ShippingAddress.City)
	assert.Equal(t, "0754000111", state.PaymentMethod.AccountNumber)

	assert.True(t, c.Finish(sub, "AG000123XYZ", true))
	assert.Equal(t, StepComplete, c.Step())
	assert.Equal(t, "AG000123XYZ", c.State().LastOrderNumber)
}

func TestFinishFailureKeepsSelections(t *testing.T) {
	c := toReview(t)
	sub, err := c.Begin()
	require.NoError(t, err)

	assert.True(t, c.Finish(sub, "", false))
	assert.False(t, c.Processing())
	assert.Equal(t, StepReview, c.Step())

	_, err = c.Begin()
	assert.NoError(t, err)
}

func TestFinishSuccessCompletesCheckout(t *testing.T) {
	c := toReview(t)
	c.SetDiscountCode("WELCOME10")
	sub, err := c.Begin()
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", sub.DiscountCode)

	assert.True(t, c.Finish(sub, "AG123456XYZ", true))
	state := c.State()
	assert.Equal(t, StepComplete, state.Step)
	assert.False(t, state.Processing)
	assert.Nil(t, state.ShippingAddress)
	assert.Nil(t, state.PaymentMethod)
	assert.Equal(t, "AG123456XYZ", state.LastOrderNumber)

	_, err = c.Begin()
	assert.ErrorIs(t, err, ErrNotReviewing)
}

func TestFinishAfterResetIsDiscarded(t *testing.T) {
	c := toReview(t)
	sub, err := c.Begin()
	require.NoError(t, err)

	c.Reset()
	assert.False(t, c.Processing())

	assert.False(t, c.Finish(sub, "AG1", true))
	assert.Equal(t, StepShipping, c.Step())
	assert.Empty(t, c.State().LastOrderNumber)
}

func TestResetClearsEverything(t *testing.T) {
	c := toReview(t)
	c.SetDiscountCode("SAVE5000")
	c.Reset()

	state := c.State()
	assert.Equal(t, StepShipping, state.Step)
	assert.Nil(t, state.ShippingAddress)
	assert.Nil(t, state.PaymentMethod)
	assert.Nil(t, state.ShippingMethod)
	assert.Empty(t, state.DiscountCode)
	assert.Empty(t, state.Errors)
}

func TestStepText(t *testing.T) {
	assert.Equal(t, "review", StepReview.String())
	raw, err := StepPayment.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "payment", string(raw))

	step, err := ParseStep("complete")
	require.NoError(t, err)
	assert.Equal(t, StepComplete, step)
	_, err = ParseStep("confirm")
	assert.Error(t, err)
	assert.Equal(t, "Step(9)", Step(9).String())
}

func TestShippingMethodsForRegion(t *testing.T) {
	assert.Len(t, ShippingMethodsFor(""), 3)
	assert.Len(t, ShippingMethodsFor("dar es salaam"), 3)
	mwanza := ShippingMethodsFor("Mwanza")
	require.Len(t, mwanza, 1)
	assert.Equal(t, "standard", mwanza[0].ID)
	assert.Empty(t, ShippingMethodsFor("Kigoma"))
}
