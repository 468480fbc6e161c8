package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPending      OrderStatus = "Pendente"
	StatusInProduction OrderStatus = "Em Produção"
	StatusDelivered    OrderStatus = "Entregue"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProduction, StatusDelivered:
		return true
	}
	return false
}

type DeliveryType string

const (
	DeliveryPickup DeliveryType = "pickup"
	DeliveryHome   DeliveryType = "delivery"
)

func (t DeliveryType) Valid() bool {
	return t == DeliveryPickup || t == DeliveryHome
}

// PaymentMethods are the labels offered at checkout. Payment itself happens outside the app.
var PaymentMethods = []string{"MB WAY", "Multibanco", "Transferência Bancária", "Dinheiro"}

// DateLayout is how delivery dates travel in requests and documents.
const DateLayout = "2006-01-02"

type Order struct {
	ID            string       `json:"id" firestore:"id"`
	CreatedAt     time.Time    `json:"created_at" firestore:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" firestore:"updated_at"`
	Items         []CartItem   `json:"items" firestore:"items"`
	Subtotal      float64      `json:"subtotal" firestore:"subtotal"`
	DeliveryFee   float64      `json:"delivery_fee" firestore:"delivery_fee"`
	Total         float64      `json:"total" firestore:"total"`
	DeliveryType  DeliveryType `json:"delivery_type" firestore:"delivery_type"`
	DeliveryDate  string       `json:"delivery_date" firestore:"delivery_date"`
	DeliveryTime  string       `json:"delivery_time" firestore:"delivery_time"`
	Address       string       `json:"address,omitempty" firestore:"address,omitempty"`
	PostalCode    string       `json:"postal_code,omitempty" firestore:"postal_code,omitempty"`
	DistanceKm    float64      `json:"distance_km,omitempty" firestore:"distance_km,omitempty"`
	TaxID         string       `json:"tax_id,omitempty" firestore:"tax_id,omitempty"`
	PaymentMethod string       `json:"payment_method" firestore:"payment_method"`
	Status        OrderStatus  `json:"status" firestore:"status"`
	Notes         string       `json:"notes,omitempty" firestore:"notes,omitempty"`
	CustomerID    string       `json:"customer_id" firestore:"customer_id"`
	CustomerEmail string       `json:"customer_email" firestore:"customer_email"`
	CustomerName  string       `json:"customer_name" firestore:"customer_name"`
	CustomerPhone string       `json:"customer_phone,omitempty" firestore:"customer_phone,omitempty"`
}

func (o Order) DocumentID() string { return o.ID }

// Reference is the short label printed on receipts and shown to the customer.
func (o Order) Reference() string {
	return fmt.Sprintf("#%s", o.ID)
}
