package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"agrilink/internal/models"
)

var phonePattern = regexp.MustCompile(`^(\+255|0)[67]\d{8}$`)

var validate = newValidator()

var fieldLabels = map[string]string{
	"firstName":     "First name",
	"lastName":      "Last name",
	"address":       "Address",
	"city":          "City",
	"region":        "Region",
	"phone":         "Phone number",
	"accountNumber": "Mobile money number",
	"paymentMethod": "Payment method",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("tzphone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidPhone reports whether phone is a Tanzanian mobile number. Whitespace
// inside the number is ignored.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.Join(strings.Fields(phone), ""))
}

func validateAddress(address *models.ShippingAddress) map[string]string {
	if address == nil {
		return map[string]string{"shippingAddress": "Shipping address is required"}
	}
	return fieldErrors(validate.Struct(address))
}

func validatePayment(method *models.PaymentMethod) map[string]string {
	if method == nil {
		return map[string]string{"paymentMethod": "Payment method is required"}
	}
	return fieldErrors(validate.Struct(method))
}

func validateShippingMethod(method *models.ShippingMethod) map[string]string {
	if method == nil || method.ID == "" {
		return map[string]string{"shippingMethod": "Shipping method is required"}
	}
	return nil
}

func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field == "type" {
			field = "paymentMethod"
		}
		out[field] = message(field, fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	switch tag {
	case "tzphone":
		return "Please enter a valid Tanzanian phone number"
	case "oneof":
		return fieldLabels[field] + " is not supported"
	}
	if label, ok := fieldLabels[field]; ok {
		return label + " is required"
	}
	return field + " is invalid"
}

// ValidateAddress checks a shipping address the same way the shipping step
// does. It returns nil or a *ValidationError.
func ValidateAddress(address models.ShippingAddress) error {
	normalized := address.Normalized()
	if fields := validateAddress(&normalized); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
