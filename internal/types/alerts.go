package types

import "github.com/go-playground/validator/v10"

// CreateAlertRequest represents the request to create a job alert.
type CreateAlertRequest struct {
	Name         string   `json:"name" validate:"required,min=1"`
	Search       string   `json:"search" validate:"required,min=1"`
	Description  string   `json:"description,omitempty"`
	IncludeWords []string `json:"include_words,omitempty" validate:"dive,min=1"`
	OmitWords    []string `json:"omit_words,omitempty" validate:"dive,min=1"`
}

// EditAlertRequest represents a partial update to a job alert. Nil fields
// keep their stored values.
type EditAlertRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Search       *string   `json:"search,omitempty" validate:"omitempty,min=1"`
	Description  *string   `json:"description,omitempty"`
	IncludeWords *[]string `json:"include_words,omitempty" validate:"omitempty,dive,min=1"`
	OmitWords    *[]string `json:"omit_words,omitempty" validate:"omitempty,dive,min=1"`
}

// Validate validates the CreateAlertRequest using the validator.
func (r *CreateAlertRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the EditAlertRequest using the validator.
func (r *EditAlertRequest) Validate() error {
	return validator.New().Struct(r)
}
