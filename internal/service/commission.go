package service

import "github.com/shopspring/decimal"

// itemCommissionRate is the marketplace cut applied to every order line.
// It is a flat rate: shops carry their own commission_rate column, but
// order creation does not consult it.
var itemCommissionRate = decimal.RequireFromString("0.10")

// itemCommission returns the marketplace cut for one line, rounded to
// cents. The line price is the snapshot taken at order time.
func itemCommission(price decimal.Decimal) decimal.Decimal {
	return price.Mul(itemCommissionRate).Round(2)
}
