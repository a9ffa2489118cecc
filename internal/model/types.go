// Package model defines the core data structures for pm.
package model

// Product is the single entity kept in the products file.
type Product struct {
	ID          int     `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Thumbnail   string  `json:"thumbnail" yaml:"thumbnail"`
	Code        string  `json:"code" yaml:"code"`
	Stock       float64 `json:"stock" yaml:"stock"`
}

// LastID returns the id of the last product in storage order, or 0 for an
// empty slice. New ids are derived from it rather than from the maximum id.
func LastID(products []Product) int {
	if len(products) == 0 {
		return 0
	}
	return products[len(products)-1].ID
}

// IndexOf returns the index of the first product with the given id, or -1.
func IndexOf(products []Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
