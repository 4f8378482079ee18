package serverutils

import (
	"errors"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists the failing fields of a request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "request validation failed"
}

// Is lets validation failures match apperror.ErrInvalidRequest.
func (e *ValidationError) Is(target error) bool {
	return target == apperror.ErrInvalidRequest
}

func ValidateRequest(req interface{}) error {
	err := entity.Validate(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.KindInvalidRequest, err, "invalid request")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}
