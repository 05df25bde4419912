package comment

import (
	"commentadmin/pkg/httperror"
	"errors"

	"github.com/go-playground/validator/v10"
)

func validateRequest(code string, req any) error {
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return httperror.BadRequest(
				code+".validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return httperror.InternalServerError(
			code+".validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	return nil
}

// toHTTPError maps service errors onto the API error model.
func toHTTPError(code, message string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return httperror.BadRequest(code+".validation_failed", ve.Error(), nil)
	}

	return httperror.InternalServerError(code+".failed", message, nil)
}
