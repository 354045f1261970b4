package request

import validation "github.com/go-ozzo/ozzo-validation"

type SetContestActiveRequest struct {
	// Pointer so "false" and "missing" are distinguishable.
	IsActive *bool `json:"is_active"`
}

func (req *SetContestActiveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.IsActive, validation.NotNil),
	)
}
