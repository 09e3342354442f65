package command

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/internal/product/domain"
)

var genrePattern = regexp.MustCompile(`^[A-Z]+[a-zA-Z\s]*$`)

// MaxPriceExponent bounds the decimal exponent of a price. Larger exponents are
// rejected without converting the value.
const MaxPriceExponent = 20

// PriceDecimals is the scale of the price column
const PriceDecimals = 2

// ProductFields are the user-editable product attributes shared by create and update
type ProductFields struct {
	Title       string          `validate:"required,min=3,max=60"`
	ReleaseDate time.Time       `validate:"required"`
	Genre       string          `validate:"required,max=30,genre"`
	Price       decimal.Decimal `validate:"gte=1,lte=100"`
}

func (f ProductFields) apply(p *domain.Product) {
	p.Title = f.Title
	p.ReleaseDate = f.ReleaseDate
	p.Genre = f.Genre
	p.Price = f.Price
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			if !PriceExponentInRange(d) {
				return math.NaN()
			}
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return genrePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks fields against the catalog rules and returns a *domain.ValidationError
// listing every rejected field, or nil.
func Validate(fields ProductFields) error {
	verr := domain.NewValidationError()

	if err := validate.Struct(fields); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate product: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), message(fe))
		}
	}

	if !verr.Has("Price") && !fields.Price.Equal(fields.Price.Truncate(PriceDecimals)) {
		verr.Add("Price", fmt.Sprintf("The field Price must have at most %d decimal places.", PriceDecimals))
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// PriceExponentInRange reports whether d can be compared and converted cheaply
func PriceExponentInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -MaxPriceExponent && exp <= MaxPriceExponent
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "min":
		return fmt.Sprintf("The field %s must be at least %s characters long.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The field %s must be at most %s characters long.", fe.Field(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("The field %s must be between 1 and 100.", fe.Field())
	case "genre":
		return fmt.Sprintf("The field %s must start with an upper-case letter and contain only letters and spaces.", fe.Field())
	default:
		return fmt.Sprintf("The field %s is invalid.", fe.Field())
	}
}
