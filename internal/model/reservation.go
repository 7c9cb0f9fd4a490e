package model

type Reservation struct {
	BaseModel
	LotID    string `db:"lot_id" json:"lot_id"`
	UserID   string `db:"user_id" json:"user_id"`
	Quantity int    `db:"quantity" json:"quantity"`

	Lot *Lot `db:"-" json:"lot,omitempty"` // Joined data
}
