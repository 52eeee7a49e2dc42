package services

import (
	"strings"

	"academy-service/models"

	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod is recorded when the buyer did not pick one.
const DefaultPaymentMethod = "TRANSFER"

const selectedMethodLabel = "Selected method: "

// usdMethods settle in US dollars when the course has a USD price.
var usdMethods = map[string]bool{
	"USDT":      true,
	"SKRILL":    true,
	"AIRTM":     true,
	"PREX":      true,
	"TIPFUNDER": true,
}

// Quote is the amount expected for an order given its payment method.
type Quote struct {
	Method   string
	Amount   decimal.Decimal
	Currency string
}

// NormalizeMethod trims and upper-cases a payment method.
func NormalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

// IsUSDMethod reports whether method settles in USD.
func IsUSDMethod(method string) bool {
	return usdMethods[NormalizeMethod(method)]
}

// MethodLabel is the human readable note stored alongside the order.
func MethodLabel(method string) string {
	return selectedMethodLabel + method
}

// OrderMethod returns the order's payment method. Orders created before the
// method had its own column only carry it in the notes label.
func OrderMethod(order *models.Order) string {
	if order.PaymentMethod != nil && *order.PaymentMethod != "" {
		return NormalizeMethod(*order.PaymentMethod)
	}
	if order.Notes != nil {
		if rest, ok := strings.CutPrefix(*order.Notes, selectedMethodLabel); ok {
			if m := NormalizeMethod(rest); m != "" {
				return m
			}
		}
	}
	return DefaultPaymentMethod
}

// QuotePayment prices a receipt for order. USD methods use the course USD
// price when one exists; everything else uses the local price.
func QuotePayment(order *models.Order, defaultCurrency string) Quote {
	method := OrderMethod(order)
	course := order.Course

	if IsUSDMethod(method) && course.PriceUSD.Valid {
		return Quote{Method: method, Amount: course.PriceUSD.Decimal, Currency: "USD"}
	}

	currency := course.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return Quote{Method: method, Amount: course.Price, Currency: currency}
}
