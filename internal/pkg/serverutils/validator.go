package serverutils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationMessenger lets a request type choose the client message for a
// failed validation.
type ValidationMessenger interface {
	ValidationMessage(field, tag string) string
}

// ValidateRequest runs the validate struct tags of req. Failures become a
// 400 AppError.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &AppError{Code: http.StatusBadRequest, Message: "Invalid request", Err: err}
	}

	first := verrs[0]
	msg := fmt.Sprintf("%s failed on the '%s' rule", strings.ToLower(first.Field()), first.Tag())
	if m, ok := req.(ValidationMessenger); ok {
		if custom := m.ValidationMessage(first.Field(), first.Tag()); custom != "" {
			msg = custom
		}
	}
	return &AppError{Code: http.StatusBadRequest, Message: msg, Err: err}
}
