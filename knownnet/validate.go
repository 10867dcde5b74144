package knownnet

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError lists every invalid field of a networks file.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// Validate checks SSID and passphrase lengths of every entry.
func Validate(file *File) error {
	return convert(validate.Struct(file))
}

// ValidateNetwork checks a single entry, e.g. one submitted for saving.
func ValidateNetwork(network *Network) error {
	return convert(validate.Struct(network))
}

func convert(err error) error {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	result := &ValidationError{}

	for _, fe := range validationErrors {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			msg = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			msg = fmt.Sprintf("must be at most %s characters", fe.Param())
		default:
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}

		result.Fields = append(result.Fields, fmt.Sprintf("%s %s", fe.Namespace(), msg))
	}

	return result
}
