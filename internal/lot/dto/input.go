package dto

import "time"

type CreateLotInput struct {
	ProductID     string
	DeliveryDate  time.Time
	UnitOfMeasure string
	TotalQuantity int
	UnitPrice     float64
	Suspended     bool
}

type UpdateLotInput struct {
	ID            string
	ProductID     string
	DeliveryDate  time.Time
	UnitOfMeasure string
	TotalQuantity int
	UnitPrice     float64
	Suspended     bool
}
