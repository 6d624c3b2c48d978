package http

import (
	"github.com/tuanvumaihuynh/catalog-service/internal/model"
)

// productResponse is the public product shape. Store-managed fields
// (internal keys, timestamps) are never serialized.
type productResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"` // Deprecated: use Images.
	Images      []string `json:"images"`
	Size        *string  `json:"size,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	Sku         *string  `json:"sku,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func newProductResponse(p model.Product) productResponse {
	res := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Images:      p.Images,
		Size:        p.Size,
		Category:    p.Category,
		Tags:        p.Tags,
		Sku:         p.Sku,
		Rating:      p.Rating,
	}
	if res.Images == nil {
		res.Images = []string{}
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	if img, ok := p.PrimaryImage(); ok {
		res.Image = &img
	}

	return res
}
