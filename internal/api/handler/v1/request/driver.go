package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type AddDriverRequest struct {
	Name             string `json:"name"`
	CompetitorNumber int    `json:"competitor_number"`
	Plate            string `json:"plate"`
	ImageURL         string `json:"image_url"`
}

func (req *AddDriverRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.CompetitorNumber, validation.Required, validation.Min(1)),
		validation.Field(&req.Plate, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.ImageURL, is.URL),
	)
}

// EditDriverRequest carries a partial update; absent fields stay as-is.
type EditDriverRequest struct {
	Name             *string `json:"name"`
	CompetitorNumber *int    `json:"competitor_number"`
	Plate            *string `json:"plate"`
	ImageURL         *string `json:"image_url"`
}

func (req *EditDriverRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.CompetitorNumber, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&req.Plate, validation.NilOrNotEmpty, validation.Length(1, 20)),
	)
}
