package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is a storefront catalog entry persisted in the local products file.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Category      string   `json:"category"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Features      []string `json:"features"`
	InStock       bool     `json:"inStock"`
	Stock         *int     `json:"stock,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Featured      bool     `json:"featured"`
}

// ProductInput is the loosely-filled payload accepted by the catalog API.
type ProductInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Features      []string `json:"features"`
	InStock       *bool    `json:"inStock"`
	Stock         *int     `json:"stock"`
	Rating        *float64 `json:"rating"`
	Reviews       int      `json:"reviews"`
	Featured      bool     `json:"featured"`
}
