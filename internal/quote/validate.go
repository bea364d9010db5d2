package quote

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

var (
	errContactRequired = errors.New("phone or email required")

	validate = newValidator()
)

type quoteReq struct {
	Name         string `json:"name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	Email        string `json:"email" validate:"omitempty,email,max=254"`
	Message      string `json:"message" validate:"max=2000"`
	Installation bool   `json:"installation"`
	Items        []Item `json:"items" validate:"max=10,dive"`
}

type consultationReq struct {
	Name          string `json:"name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,phone"`
	PreferredTime string `json:"preferred_time" validate:"max=100"`
	Topic         string `json:"topic" validate:"max=100"`
	Message       string `json:"message" validate:"max=2000"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	return v
}

// validPhone accepts digits with common separators and a leading plus.
func validPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

func (r *quoteReq) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Message = strings.TrimSpace(r.Message)
	for i := range r.Items {
		r.Items[i].ProductID = strings.TrimSpace(r.Items[i].ProductID)
	}
}

func (r *consultationReq) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.PreferredTime = strings.TrimSpace(r.PreferredTime)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Message = strings.TrimSpace(r.Message)
}

func (r quoteReq) validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Phone == "" && r.Email == "" {
		return errContactRequired
	}
	return nil
}

func (r consultationReq) validate() error {
	return validate.Struct(r)
}

// fieldErrors turns validation failures into {field: rule} for the client.
func fieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return out
}

func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
