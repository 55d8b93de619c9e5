package entity

// Service is one entry of the offered service catalog shown on the services step.
type Service struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type ServiceCatalog interface {
	Services() []Service
	Has(id string) bool
}
