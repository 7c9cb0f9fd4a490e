package model

type Product struct {
	BaseModel
	ProducerID string    `db:"producer_id" json:"producer_id"`
	Name       string    `db:"name" json:"name"`
	ImageURL   *string   `db:"image_url" json:"image_url"`  // Nullable
	Producer   *Producer `db:"-" json:"producer,omitempty"` // Joined data
}
