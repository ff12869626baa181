// Package validation checks form drafts before anything is sent to the API.
//
// A Schema is an ordered table of rules keyed by field name. Each rule is a
// go-playground/validator tag list evaluated against the field's string
// value, with a human message per tag. Whole-form validation walks every
// rule; single-field validation evaluates just one entry of the table.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Fields is a candidate record: field name to raw input.
type Fields map[string]string

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Errors maps field name to message. An empty Errors means valid.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

// Rule constrains one field.
type Rule struct {
	Field    string
	Tag      string
	Messages map[string]string
}

type Schema struct {
	Name  string
	rules []Rule
	index map[string]int
}

func NewSchema(name string, rules ...Rule) *Schema {
	s := &Schema{Name: name, rules: rules, index: make(map[string]int, len(rules))}
	for i, r := range rules {
		s.index[r.Field] = i
	}
	return s
}

// Fields lists the schema's fields in declaration order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Field
	}
	return out
}

// Validate checks every rule and collects one message per failing field.
func (s *Schema) Validate(f Fields) Errors {
	errs := make(Errors)
	for _, r := range s.rules {
		if msg, ok := r.check(f[r.Field]); !ok {
			errs[r.Field] = msg
		}
	}
	return errs
}

// ValidateField re-checks a single field. Fields the schema does not know
// are always valid.
func (s *Schema) ValidateField(field, value string) (string, bool) {
	i, ok := s.index[field]
	if !ok {
		return "", true
	}
	return s.rules[i].check(value)
}

// FieldError is one entry of Errors in schema order.
type FieldError struct {
	Field   string
	Message string
}

// Ordered returns errs in the schema's field order, for stable output.
func (s *Schema) Ordered(errs Errors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, r := range s.rules {
		if msg, ok := errs[r.Field]; ok {
			out = append(out, FieldError{Field: r.Field, Message: msg})
		}
	}
	for field, msg := range errs {
		if _, known := s.index[field]; !known {
			out = append(out, FieldError{Field: field, Message: msg})
		}
	}
	return out
}

func (r Rule) check(value string) (string, bool) {
	err := validate.Var(value, r.Tag)
	if err == nil {
		return "", true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := r.Messages[verrs[0].Tag()]; ok {
			return msg, false
		}
	}
	return fmt.Sprintf("%s is invalid", r.Field), false
}

var (
	// RE2 has no look-ahead, so the password rule is a charset/length check
	// plus one presence check per required character class.
	passwordCharset = regexp.MustCompile(`^[A-Za-z0-9@$!%*?&]{8,}$`)
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[0-9]`),
		regexp.MustCompile(`[@$!%*?&]`),
	}
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)
)

// StrongPassword reports whether p has at least 8 characters drawn from
// letters, digits and @$!%*?&, including at least one upper-case letter,
// one lower-case letter, one digit and one of those specials.
func StrongPassword(p string) bool {
	if !passwordCharset.MatchString(p) {
		return false
	}
	for _, re := range passwordClasses {
		if !re.MatchString(p) {
			return false
		}
	}
	return true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsOnly.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}
