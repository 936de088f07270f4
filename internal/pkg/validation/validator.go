package validation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Tags registered on top of the validator/v10 built-ins
const (
	TagLooseEmail = "looseemail"
	TagWhatsapp   = "whatsapp"
	TagSemester   = "semester"
	TagTrimMin    = "trimmin"
)

// Validator wraps validator/v10 with the registration rules and turns
// field errors into client-facing messages.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// New creates a Validator with the custom tags registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, TagLooseEmail, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, TagWhatsapp, func(fl validator.FieldLevel) bool {
		return IsWhatsapp(fl.Field().String())
	})
	mustRegister(v, TagSemester, func(fl validator.FieldLevel) bool {
		return IsSemester(fl.Field().String())
	})
	mustRegister(v, TagTrimMin, func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return HasMinTrimmedLength(fl.Field().String(), min)
	})

	return &Validator{validate: v, messages: map[string]string{}}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// RegisterStructValidation adds a cross-field rule for the given type
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	v.validate.RegisterStructValidation(fn, types...)
}

// WithMessage overrides the message reported for a field/tag pair.
// The key is "<Field>.<tag>".
func (v *Validator) WithMessage(field, tag, message string) *Validator {
	v.messages[field+"."+tag] = message
	return v
}

// Struct validates s and returns one message per failed rule, in field
// order. A nil slice means s is valid.
func (v *Validator) Struct(s interface{}) ([]string, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, v.format(fe))
	}
	return messages, nil
}

// format creates a human-readable validation error message
func (v *Validator) format(e validator.FieldError) string {
	if msg, ok := v.messages[e.StructField()+"."+e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case TagTrimMin:
		return e.Field() + " must be at least " + e.Param() + " characters long"
	case TagLooseEmail:
		return e.Field() + " must be a valid email address"
	case TagWhatsapp:
		return e.Field() + " must be 10 digits"
	case TagSemester:
		return e.Field() + " must be a valid semester"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
