package mutator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
	"golang.org/x/text/unicode/norm"
)

// MinPhoneDigits is the digit count a phone number needs in lenient mode.
const MinPhoneDigits = 10

// PhoneRule controls phone validation.
// Lenient mode counts digits; strict mode asks libphonenumber whether the
// number is valid for Region.
type PhoneRule struct {
	Region string
	Strict bool
}

// DefaultPhoneRule is lenient with Pakistan as the default region.
var DefaultPhoneRule = PhoneRule{Region: "PK"}

// Valid reports whether phone passes the rule.
func (r PhoneRule) Valid(phone string) bool {
	digits := 0
	for _, c := range phone {
		if unicode.IsDigit(c) {
			digits++
		}
	}
	if digits < MinPhoneDigits {
		return false
	}
	if !r.Strict {
		return true
	}
	region := r.Region
	if region == "" {
		region = DefaultPhoneRule.Region
	}
	p, err := libphonenumber.Parse(phone, region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

func newValidator(rule PhoneRule) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return rule.Valid(fl.Field().String())
	})
	return v
}

// fieldCheck validates a single value under a field name.
type fieldCheck struct {
	field string
	value any
	tag   string
}

// checkStruct validates a create input.
func (m *Mutator) checkStruct(entity string, input any) error {
	return m.collect(entity, 0, m.validate.Struct(input), "")
}

// checkFields validates the fields present in a patch.
func (m *Mutator) checkFields(entity string, id int64, checks ...fieldCheck) error {
	var fields []FieldError
	for _, c := range checks {
		err := m.validate.Var(c.value, c.tag)
		if err == nil {
			continue
		}
		mErr := m.collect(entity, id, err, c.field)
		var me *Error
		if !errors.As(mErr, &me) {
			return mErr
		}
		fields = append(fields, me.Fields...)
	}
	if len(fields) > 0 {
		return invalid(entity, id, fields...)
	}
	return nil
}

// collect converts validator output into *Error. fieldName overrides the
// reported field, as Var has no field name of its own.
func (m *Mutator) collect(entity string, id int64, err error, fieldName string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", entity, err)
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		name := ve.Field()
		if fieldName != "" {
			name = fieldName
		}
		fields = append(fields, FieldError{Field: name, Reason: m.reason(ve)})
	}
	return invalid(entity, id, fields...)
}

func (m *Mutator) reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone":
		if m.phone.Strict {
			return fmt.Sprintf("is not a valid %s phone number", m.phone.Region)
		}
		return fmt.Sprintf("must contain at least %d digits", MinPhoneDigits)
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// clean trims and NFC-normalises free text so lookups and exports
// compare composed forms.
func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := clean(*s)
	return &c
}
