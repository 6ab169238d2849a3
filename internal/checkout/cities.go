package checkout

// City carries the flat shipping fee for deliveries to a Syrian city, in the
// canonical currency.
type City struct {
	Name        string  `json:"name"`
	ShippingFee float64 `json:"shipping_fee"`
}

var syrianCities = []City{
	{Name: "دمشق", ShippingFee: 2},
	{Name: "ريف دمشق", ShippingFee: 2},
	{Name: "حلب", ShippingFee: 2},
	{Name: "حمص", ShippingFee: 2},
	{Name: "حماة", ShippingFee: 2},
	{Name: "اللاذقية", ShippingFee: 2},
	{Name: "طرطوس", ShippingFee: 2},
	{Name: "إدلب", ShippingFee: 2},
	{Name: "درعا", ShippingFee: 2},
	{Name: "السويداء", ShippingFee: 2},
	{Name: "القنيطرة", ShippingFee: 2},
	{Name: "دير الزور", ShippingFee: 2},
	{Name: "الرقة", ShippingFee: 2},
	{Name: "الحسكة", ShippingFee: 2},
}

// Cities returns the fixed city-rate table, in display order.
func Cities() []City {
	out := make([]City, len(syrianCities))
	copy(out, syrianCities)
	return out
}

// shippingFee looks up the flat fee for a city. Unknown cities cost 0; the
// validator rejects them before this matters.
func shippingFee(city string) float64 {
	for _, c := range syrianCities {
		if c.Name == city {
			return c.ShippingFee
		}
	}
	return 0
}

func knownCity(city string) bool {
	for _, c := range syrianCities {
		if c.Name == city {
			return true
		}
	}
	return false
}
