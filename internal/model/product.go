package model

import (
	"time"
)

// Product is a catalog entry. Images holds attachment references (storage
// paths), never the binaries themselves.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Description *string
	Images      []string
	Size        *string
	Category    *string
	Tags        []string
	Sku         *string
	Rating      *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PrimaryImage returns the first attachment reference, the single image of
// the legacy product shape.
func (p Product) PrimaryImage() (string, bool) {
	if len(p.Images) == 0 {
		return "", false
	}
	return p.Images[0], true
}
