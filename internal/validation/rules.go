package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

// FieldError is a single rejected field, keyed by its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Join renders a list of field errors in one line.
func Join(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return strings.Join(parts, ", ")
}

// Rules is the rule table consulted by the questionnaire, the recipient directory
// and the HTTP boundary. It is safe for concurrent use.
type Rules struct {
	v       *validator.Validate
	catalog entity.ServiceCatalog
}

func New(catalog entity.ServiceCatalog) *Rules {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	r := &Rules{v: v, catalog: catalog}

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("budgetrange", func(fl validator.FieldLevel) bool {
		return entity.BudgetRange(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if r.catalog == nil {
			return strings.TrimSpace(id) != ""
		}
		return r.catalog.Has(id)
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(entity.UpdateEmailRecipientInput)
		if in.Empty() {
			sl.ReportError(in.Active, "patch", "Patch", "atleastone", "")
		}
	}, entity.UpdateEmailRecipientInput{})

	return r
}

// Prospect validates the whole submission.
func (r *Rules) Prospect(p entity.ProspectSubmission) []FieldError {
	return r.translate(r.v.Struct(p))
}

// ProspectFields validates only the named Go struct fields of the submission.
func (r *Rules) ProspectFields(p entity.ProspectSubmission, fields ...string) []FieldError {
	if len(fields) == 0 {
		return nil
	}
	return r.translate(r.v.StructPartial(p, fields...))
}

func (r *Rules) CreateRecipient(in entity.CreateEmailRecipientInput) []FieldError {
	return r.translate(r.v.Struct(in))
}

func (r *Rules) UpdateRecipient(in entity.UpdateEmailRecipientInput) []FieldError {
	return r.translate(r.v.Struct(in))
}

func (r *Rules) translate(err error) []FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must have at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "budgetrange":
		ranges := entity.BudgetRanges()
		tokens := make([]string, len(ranges))
		for i, b := range ranges {
			tokens[i] = string(b)
		}
		return "must be one of: " + strings.Join(tokens, ", ")
	case "service":
		return "is not an offered service"
	case "unique":
		return "must not contain duplicates"
	case "phone":
		return "must be a valid phone number"
	case "atleastone":
		return "must set at least one of email, name or active"
	}
	return "is invalid"
}

func isValidPhoneNumber(phone string) bool {
	digits := 0
	for _, c := range phone {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == ' ', c == '+', c == '-', c == '(', c == ')', c == '.':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
