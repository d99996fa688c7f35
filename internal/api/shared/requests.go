package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/domain"
)

// MaxRequestBodyBytes caps how much of a request body is read.
const MaxRequestBodyBytes = 1 << 20

// Global validator instance for reuse
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v. Every failure is returned as a
// *domain.ValidationError with a client-safe message.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return domain.NewValidationError("", "request body is required", domain.ErrValidation)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodyBytes))
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return domain.NewValidationError("", "request body must contain a single JSON object", domain.ErrValidation)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("", "request body is required", domain.ErrValidation)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return domain.NewValidationError(typeErr.Field, fmt.Sprintf("must be a %s", jsonKind(typeErr.Type)), domain.ErrValidation)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewValidationError("", "request body is not valid JSON", domain.ErrValidation)
	default:
		return domain.NewValidationError("", "invalid request format", domain.ErrValidation)
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "valid value"
	}
}

// ValidateRequest validates the given struct using the validator package.
// The first failing field is reported as a *domain.ValidationError.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), tagMessage(fe.Tag()), domain.ErrValidation)
	}
	return domain.NewValidationError("", "invalid request", domain.ErrValidation)
}

// tagMessage maps validation tags to user-friendly error messages
func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return "is too long"
	case "min":
		return "is too short"
	default:
		return "is invalid"
	}
}
