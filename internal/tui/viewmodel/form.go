package viewmodel

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Veraticus/merchant-ops/internal/model"
)

// Form field names used as FieldErrors keys.
const (
	FieldName            = "name"
	FieldCountry         = "country"
	FieldMonthlyVolume   = "monthlyVolume"
	FieldChargebackRatio = "chargebackRatio"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps validator field/tag pairs to operator-facing text.
var fieldMessages = map[string]string{
	"Name.min":            "Name must be at least 3 characters",
	"Name.required":       "Name must be at least 3 characters",
	"Country.required":    "Country is required",
	"MonthlyVolume.gte":   "Monthly Volume is required",
	"ChargebackRatio.gte": "Chargeback Ratio must be between 0 and 100",
	"ChargebackRatio.lte": "Chargeback Ratio must be between 0 and 100",
}

var fieldKeys = map[string]string{
	"Name":            FieldName,
	"Country":         FieldCountry,
	"MonthlyVolume":   FieldMonthlyVolume,
	"ChargebackRatio": FieldChargebackRatio,
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// MerchantFormInput is the raw text of the merchant form.
type MerchantFormInput struct {
	Name            string
	Country         string
	MonthlyVolume   string
	ChargebackRatio string
}

// MerchantFormData is a validated merchant form.
type MerchantFormData struct {
	ChargebackRatio *float64 `validate:"omitempty,gte=0,lte=100"`
	Name            string   `validate:"required,min=3"`
	Country         string   `validate:"required"`
	MonthlyVolume   float64  `validate:"gte=0.01"`
}

// Ratio returns the chargeback ratio, defaulting to 0.
func (d MerchantFormData) Ratio() float64 {
	if d.ChargebackRatio == nil {
		return 0
	}
	return *d.ChargebackRatio
}

// FormInputFrom prefills the form from an existing merchant.
func FormInputFrom(m model.Merchant) MerchantFormInput {
	return MerchantFormInput{
		Name:            m.Name,
		Country:         m.Country,
		MonthlyVolume:   strconv.FormatFloat(m.MonthlyVolume, 'f', -1, 64),
		ChargebackRatio: strconv.FormatFloat(m.ChargebackRatio, 'f', -1, 64),
	}
}

// Validate parses and checks the input. The data is only meaningful when
// the returned FieldErrors is empty.
func (in MerchantFormInput) Validate() (MerchantFormData, FieldErrors) {
	errs := FieldErrors{}
	data := MerchantFormData{
		Name:    strings.TrimSpace(in.Name),
		Country: strings.TrimSpace(in.Country),
	}

	if raw := strings.TrimSpace(in.MonthlyVolume); raw != "" {
		v, err := parseAmount(raw)
		if err != nil {
			errs[FieldMonthlyVolume] = "Monthly Volume must be a number"
		}
		data.MonthlyVolume = v
	}

	if raw := strings.TrimSpace(in.ChargebackRatio); raw != "" {
		v, err := parseAmount(strings.TrimSuffix(raw, "%"))
		if err != nil {
			errs[FieldChargebackRatio] = "Chargeback Ratio must be a number"
		} else {
			data.ChargebackRatio = &v
		}
	}

	if err := validate.Struct(data); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				key := fieldKeys[fe.Field()]
				if _, exists := errs[key]; exists {
					continue
				}
				msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
				if !ok {
					msg = fe.Error()
				}
				errs[key] = msg
			}
		}
	}

	return data, errs
}

// Valid reports whether the input passes validation.
func (in MerchantFormInput) Valid() bool {
	_, errs := in.Validate()
	return len(errs) == 0
}

// parseAmount accepts plain numbers with optional $ prefix and thousands commas.
func parseAmount(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
