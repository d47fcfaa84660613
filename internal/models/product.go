package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	SellerID    string    `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	OfferPrice  float64   `json:"offer_price"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest carries the multipart form fields of a seller intake.
// Image payloads travel separately as ImageUpload values.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	// OfferPrice is expected to be at most Price, but that relationship is
	// not enforced at intake. Cart totals always use the offer price.
	OfferPrice float64 `json:"offer_price" validate:"required,gt=0"`
}

// ImageUpload is one image payload from the intake form, in form order.
type ImageUpload struct {
	Filename string
	Data     []byte
}
