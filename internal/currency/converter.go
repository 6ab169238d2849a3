package currency

// DefaultCode is the canonical currency every price is stored in.
const DefaultCode = "USD"

// Converter maps canonical prices to display amounts. It is a pure lookup over
// a fixed rate table and is safe for concurrent use.
type Converter struct {
	rates   map[string]float64
	symbols map[string]string
}

// NewConverter builds a converter with the storefront's fixed rates
// (canonical USD to Syrian pound and Turkish lira).
func NewConverter() *Converter {
	return &Converter{
		rates: map[string]float64{
			"USD": 1,
			"SYP": 14500,
			"TRY": 41,
		},
		symbols: map[string]string{
			"USD": "$",
			"SYP": "ل.س",
			"TRY": "₺",
		},
	}
}

// Convert returns the display amount for a canonical price. An unknown code
// falls back to the default currency instead of failing.
func (c *Converter) Convert(price float64, code string) float64 {
	rate, ok := c.rates[code]
	if !ok {
		rate = c.rates[DefaultCode]
	}
	return price * rate
}

// SymbolFor returns the display glyph for a currency code, defaulting to the
// canonical currency's symbol for unknown codes.
func (c *Converter) SymbolFor(code string) string {
	if sym, ok := c.symbols[code]; ok {
		return sym
	}
	return c.symbols[DefaultCode]
}

// Known reports whether the code has an entry in the rate table.
func (c *Converter) Known(code string) bool {
	_, ok := c.rates[code]
	return ok
}

// Normalize maps an unknown code to the default currency.
func (c *Converter) Normalize(code string) string {
	if c.Known(code) {
		return code
	}
	return DefaultCode
}
