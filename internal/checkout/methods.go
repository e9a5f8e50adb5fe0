package checkout

import "agrilink/internal/models"

var deliveryRegions = []string{"Dar es Salaam", "Arusha", "Mwanza", "Dodoma", "Mbeya"}

func DefaultShippingMethods() []models.ShippingMethod {
	return []models.ShippingMethod{
		{
			ID:            "standard",
			Name:          "Standard Delivery",
			Description:   "Regular delivery to your location",
			Price:         5000,
			EstimatedDays: "3-5 days",
			MaxDays:       5,
			Regions:       append([]string(nil), deliveryRegions...),
		},
		{
			ID:            "express",
			Name:          "Express Delivery",
			Description:   "Fast delivery for urgent orders",
			Price:         10000,
			EstimatedDays: "1-2 days",
			MaxDays:       2,
			Regions:       []string{"Dar es Salaam", "Arusha"},
		},
		{
			ID:            "pickup",
			Name:          "Store Pickup",
			Description:   "Pick up from our store",
			Price:         0,
			EstimatedDays: "Same day",
			MaxDays:       0,
			Regions:       []string{"Dar es Salaam"},
		},
	}
}

// ShippingMethodsFor lists the default methods serving region; an empty
// region returns all of them.
func ShippingMethodsFor(region string) []models.ShippingMethod {
	all := DefaultShippingMethods()
	if region == "" {
		return all
	}
	out := make([]models.ShippingMethod, 0, len(all))
	for _, m := range all {
		if m.ServesRegion(region) {
			out = append(out, m)
		}
	}
	return out
}

func ShippingMethodByID(id string) (models.ShippingMethod, bool) {
	for _, m := range DefaultShippingMethods() {
		if m.ID == id {
			return m, true
		}
	}
	return models.ShippingMethod{}, false
}

func DefaultPaymentMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{ID: "mpesa", Type: models.PaymentMobileMoney, Provider: "M-Pesa", IsDefault: true},
		{ID: "airtel", Type: models.PaymentMobileMoney, Provider: "Airtel Money"},
		{ID: "tigo", Type: models.PaymentMobileMoney, Provider: "Tigo Pesa"},
		{ID: "cod", Type: models.PaymentCashOnDelivery, Provider: "Cash on Delivery"},
	}
}

func PaymentMethodByID(id string) (models.PaymentMethod, bool) {
	for _, m := range DefaultPaymentMethods() {
		if m.ID == id {
			return m, true
		}
	}
	return models.PaymentMethod{}, false
}
