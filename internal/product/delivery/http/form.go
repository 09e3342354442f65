package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/usecase/command"
)

// maxPriceLength bounds the raw price before it is parsed
const maxPriceLength = 32

// ProductForm holds the raw values of the create and edit forms
type ProductForm struct {
	ID          string
	Title       string
	ReleaseDate string
	Genre       string
	Price       string
}

func productFormFromRequest(r *http.Request) ProductForm {
	return ProductForm{
		ID:          strings.TrimSpace(r.PostFormValue("Id")),
		Title:       strings.TrimSpace(r.PostFormValue("Title")),
		ReleaseDate: strings.TrimSpace(r.PostFormValue("ReleaseDate")),
		Genre:       strings.TrimSpace(r.PostFormValue("Genre")),
		Price:       strings.TrimSpace(r.PostFormValue("Price")),
	}
}

func productFormFromProduct(p *domain.Product) ProductForm {
	form := ProductForm{
		ID:    strconv.FormatUint(uint64(p.ID), 10),
		Title: p.Title,
		Genre: p.Genre,
		Price: p.Price.StringFixed(2),
	}
	if !p.ReleaseDate.IsZero() {
		form.ReleaseDate = p.ReleaseDate.Format(time.DateOnly)
	}
	return form
}

// Fields converts the raw values into typed product fields. A value that cannot be
// parsed is reported in the returned error and left zero.
func (f ProductForm) Fields() (command.ProductFields, *domain.ValidationError) {
	verr := domain.NewValidationError()
	fields := command.ProductFields{
		Title: f.Title,
		Genre: f.Genre,
	}

	if f.ReleaseDate != "" {
		d, err := time.Parse(time.DateOnly, f.ReleaseDate)
		if err != nil || d.IsZero() {
			verr.Add("ReleaseDate", fmt.Sprintf("The value '%s' is not valid for ReleaseDate.", f.ReleaseDate))
		} else {
			fields.ReleaseDate = d
		}
	}

	if f.Price == "" {
		verr.Add("Price", "The Price field is required.")
	} else if d, err := parsePrice(f.Price); err != nil {
		verr.Add("Price", fmt.Sprintf("The value '%s' is not valid for Price.", f.Price))
	} else {
		fields.Price = d
	}

	return fields, verr
}

// parsePrice rejects overlong input and exponents outside the price range before
// anything converts the value.
func parsePrice(raw string) (decimal.Decimal, error) {
	if len(raw) > maxPriceLength {
		return decimal.Decimal{}, fmt.Errorf("price longer than %d characters", maxPriceLength)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !command.PriceExponentInRange(d) {
		return decimal.Decimal{}, fmt.Errorf("price exponent %d out of range", d.Exponent())
	}
	return d, nil
}

// bindProduct decodes and validates the submitted form. A nil error map means the
// fields are ready for the command handlers.
func bindProduct(r *http.Request) (ProductForm, command.ProductFields, map[string]string) {
	form := productFormFromRequest(r)
	fields, verr := form.Fields()

	if err := command.Validate(fields); err != nil {
		var fieldErrs *domain.ValidationError
		if errors.As(err, &fieldErrs) {
			for field, msg := range fieldErrs.Fields {
				verr.Add(field, msg)
			}
		} else {
			verr.Add("", err.Error())
		}
	}

	if verr.Empty() {
		return form, fields, nil
	}
	return form, fields, verr.Fields
}
