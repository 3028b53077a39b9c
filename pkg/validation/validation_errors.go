package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

// fieldNames maps struct field names to the wire names the server uses, so
// client-side rejections look the same as server-side ones.
var fieldNames = map[string]string{
	"Email":       "email",
	"Username":    "username",
	"Password":    "password",
	"Role":        "role",
	"PhoneNumber": "phone_number",
	"CoverLetter": "cover_letter",
	"Status":      "status",
	"Title":       "title",
	"Description": "description",
	"Category":    "category",
	"Location":    "location",
}

// ToAppError converts validator output into the same shape as a server
// validation rejection: a field → messages map. Non-validator errors pass
// through as internal.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Internal(err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		fields[name] = append(fields[name], messageFor(fe))
	}
	return apperror.Validation("validation failed", fields)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "valid_phone":
		return "Enter a valid phone number."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
