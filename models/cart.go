package models

import "github.com/shopspring/decimal"

// CartItem is a product snapshot taken when it was added to the cart.
type CartItem struct {
	Product   Product   `json:"product" firestore:"product"`
	Selection Selection `json:"selection" firestore:"selection"`
	Quantity  int       `json:"quantity" firestore:"quantity"`
	UnitPrice float64   `json:"unit_price" firestore:"unit_price"`
}

func (i CartItem) LineTotal() float64 {
	return decimal.NewFromFloat(i.UnitPrice).Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2).InexactFloat64()
}
