// Package catalog resolves product codes and barcodes to product
// master data.
package catalog

import "context"

// Product is one entry in the product master.
type Product struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
}

// Store looks up products in the master data. Lookups return (nil, nil)
// when no product matches.
type Store interface {
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
}
