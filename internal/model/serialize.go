package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// indent matches the two-space layout the products file has always used.
const indent = "  "

// LoadProducts loads the products file at path.
// A file holding a JSON null is treated as an empty list.
func LoadProducts(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read products file %s: %w", path, err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products file %s: %w", path, err)
	}
	if products == nil {
		products = []Product{}
	}

	return products, nil
}

// SaveProducts overwrites the file at path with the full product list.
// The list is written as a two-space indented JSON array without HTML escaping.
// Storage order is preserved; a nil list is written as [].
func SaveProducts(path string, products []Product) error {
	data, err := EncodeProducts(products)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write products file %s: %w", path, err)
	}

	return nil
}

// EncodeProducts renders products in the on-disk format.
func EncodeProducts(products []Product) ([]byte, error) {
	if products == nil {
		products = []Product{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(products); err != nil {
		return nil, fmt.Errorf("failed to encode products: %w", err)
	}

	// Encoder always terminates with a newline; the file format does not.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
