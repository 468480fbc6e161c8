package models

import "time"

// CustomerProfile is the account-area data of a signed-in shopper, keyed by identity uid.
type CustomerProfile struct {
	ID         string    `json:"id" firestore:"id"`
	Email      string    `json:"email" firestore:"email"`
	Name       string    `json:"name" firestore:"name"`
	Phone      string    `json:"phone" firestore:"phone"`
	Street     string    `json:"street" firestore:"street"`
	PostalCode string    `json:"postal_code" firestore:"postal_code"`
	City       string    `json:"city" firestore:"city"`
	TaxID      string    `json:"tax_id,omitempty" firestore:"tax_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updated_at"`
}

func (c CustomerProfile) DocumentID() string { return c.ID }

// QuoteRequest is an out-of-band price request for an Especiais product.
type QuoteRequest struct {
	ID          string    `json:"id" firestore:"id"`
	ProductID   string    `json:"product_id" firestore:"product_id"`
	ProductName string    `json:"product_name" firestore:"product_name"`
	Name        string    `json:"name" firestore:"name"`
	Contact     string    `json:"contact" firestore:"contact"`
	Message     string    `json:"message" firestore:"message"`
	EventDate   string    `json:"event_date,omitempty" firestore:"event_date,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
}

func (q QuoteRequest) DocumentID() string { return q.ID }
