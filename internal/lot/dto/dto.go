package dto

import "time"

type LotFilters struct {
	ProductID        string
	Order            string // "asc" or "desc" by delivery date
	IncludeSuspended bool
}

// LotView is the storefront shape of a lot, including the derived remaining
// availability and the formatted display fields.
type LotView struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	DeliveryDate    time.Time `json:"delivery_date"`
	DeliveryDateStr string    `json:"delivery_date_str"`
	UnitOfMeasure   string    `json:"unit_of_measure"`
	Total           int       `json:"total"`
	Remaining       int       `json:"remaining"`
	UnitPrice       float64   `json:"unit_price"`
	PriceStr        string    `json:"price_str"`
	Suspended       bool      `json:"suspended"`
}
