package catalog

import "github.com/dustin/go-humanize"

// FormatPrice renders a price in Colombian pesos without decimals,
// e.g. "$ 1.499.900".
func FormatPrice(price float64) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}
	return sign + "$ " + humanize.FormatFloat("#.###,", price)
}

// Availability returns the stock label of a model
func Availability(available bool) string {
	if available {
		return "Disponible"
	}
	return "Agotado"
}
