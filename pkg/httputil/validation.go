package httputil

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()

	// tagMessages maps a validator tag to the text shown to clients. A
	// trailing space means the tag parameter is appended.
	tagMessages = map[string]string{
		"required": "this field is required",
		"email":    "must be a valid email address",
		"min":      "must be at least ",
		"max":      "must be at most ",
		"gte":      "must be greater than or equal to ",
		"gtfield":  "must be after ",
		"oneof":    "must be one of: ",
	}
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Errors are keyed by JSON field name so clients can map them to inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct tags and reports failures as a 400 with one
// message per field.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.BadRequest(err.Error())
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return errors.Validation(details)
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "invalid value"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + fe.Param()
	}
	return msg
}

// RegisterCustomValidation adds a tag backed by fn
func RegisterCustomValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

// RegisterEnum registers tag as a validation accepting only the allowed
// strings. Empty values pass so the tag composes with omitempty and
// pointers. Call it from package init functions only.
func RegisterEnum(tag string, allowed []string) error {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	tagMessages[tag] = "must be one of: " + strings.Join(allowed, ", ")

	return validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, ok := set[v]
		return ok
	})
}
