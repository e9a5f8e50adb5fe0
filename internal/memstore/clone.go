package memstore

import "agrilink/internal/models"

func cloneSelection(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneLine(line models.CartLine) models.CartLine {
	line.Variants = cloneSelection(line.Variants)
	line.Options = cloneSelection(line.Options)
	return line
}

func cloneOrder(o models.Order) models.Order {
	if o.Items != nil {
		items := make([]models.CartLine, len(o.Items))
		for i, line := range o.Items {
			items[i] = cloneLine(line)
		}
		o.Items = items
	}
	o.StatusHistory = append([]models.StatusChange(nil), o.StatusHistory...)
	o.ShippingMethod.Regions = append([]string(nil), o.ShippingMethod.Regions...)
	if o.EstimatedDelivery != nil {
		t := *o.EstimatedDelivery
		o.EstimatedDelivery = &t
	}
	return o
}

func cloneProduct(p models.Product) models.Product {
	p.Variants = append([]models.Variant(nil), p.Variants...)
	return p
}
