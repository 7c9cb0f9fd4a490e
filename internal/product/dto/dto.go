package dto

type ProductFilters struct {
	ProducerID  string
	SearchQuery string
}

type CreateProductInput struct {
	Name       string
	ProducerID string
	ImageURL   string
}

type UpdateProductInput struct {
	ID         string
	Name       string
	ProducerID string
	ImageURL   string
}
