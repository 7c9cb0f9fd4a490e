package dto

// LotAvailability is the display shape for a lot's computed availability.
// Field names are part of the contract with existing consumers.
type LotAvailability struct {
	LotID           string `json:"lot_id"`
	Total           int    `json:"total"`
	Remaining       int    `json:"remaining"`
	PriceStr        string `json:"price_str"`
	DeliveryDateStr string `json:"delivery_date_str"`
	Suspended       bool   `json:"suspended"`
}

// ReservationView is the serialized reservation returned by the API.
type ReservationView struct {
	ID       string `json:"id"`
	LotID    string `json:"lot_id"`
	UserID   string `json:"user_id"`
	Quantity int    `json:"quantity"`
}
