package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart maps product ID to a positive integer quantity. A quantity of zero is
// never stored; setting zero removes the entry.
type Cart struct {
	ID        uuid.UUID      `json:"id"`
	UserID    string         `json:"user_id"`
	Items     map[string]int `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CartSummary is recomputed from the cart on every read, never cached.
type CartSummary struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}
