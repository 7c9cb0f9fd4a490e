package dto

type CreateReservationInput struct {
	LotID    string
	UserID   string
	Quantity int
}

type UpdateReservationInput struct {
	ReservationID    string
	RequestingUserID string
	Quantity         int
}

type DeleteReservationInput struct {
	ReservationID    string
	RequestingUserID string
}
