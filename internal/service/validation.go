package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ticketFields struct {
	ClientDocumentNumber string `json:"client_document_number" validate:"required,max=32"`
	ClientName           string `json:"client_name" validate:"required,max=255"`
	ClientEmail          string `json:"client_email" validate:"omitempty,email,max=255"`
	Patent               string `json:"patent" validate:"required,max=16"`
	VehicleModel         string `json:"vehicle_model" validate:"required,max=64"`
	VehicleBrand         string `json:"vehicle_brand" validate:"required,uuid"`
	CheckIn              string `json:"check_in" validate:"required"`
	CheckOut             string `json:"check_out" validate:"required"`
	Street               string `json:"street" validate:"required,max=255"`
	StreetHeight         string `json:"street_height" validate:"required,max=16"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateFields(v *validator.Validate, fields ticketFields, verr *ValidationError) error {
	err := v.Struct(fields)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), describeFieldError(fe))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid identifier"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
