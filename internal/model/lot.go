package model

import (
	"fmt"
	"time"
)

type Lot struct {
	BaseModel
	ProductID     string    `db:"product_id" json:"product_id"`
	DeliveryDate  time.Time `db:"delivery_date" json:"delivery_date"`
	UnitOfMeasure string    `db:"unit_of_measure" json:"unit_of_measure"`
	TotalQuantity int       `db:"total_quantity" json:"total"`
	UnitPrice     float64   `db:"unit_price" json:"unit_price"`
	Suspended     bool      `db:"suspended" json:"suspended"`

	Product *Product `db:"-" json:"product,omitempty"` // Joined data
}

// PriceStr renders the unit price for display, e.g. "8.50 €/L".
func (l *Lot) PriceStr() string {
	return fmt.Sprintf("%.2f €/%s", l.UnitPrice, l.UnitOfMeasure)
}

// DeliveryDateStr renders the delivery date for display, e.g. "Thursday 27/06/2024".
func (l *Lot) DeliveryDateStr() string {
	return l.DeliveryDate.Format("Monday 02/01/2006")
}
