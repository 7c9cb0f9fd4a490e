package dto

type CreateProducerInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
}

type UpdateProducerInput struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
}
