package query

// ProductStock is the per-product dashboard row.
type ProductStock struct {
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Total       int    `json:"total"`
	InStock     int    `json:"in_stock"`
	Shipped     int    `json:"shipped"`
}
