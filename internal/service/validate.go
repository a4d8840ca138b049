// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator builds a validator that reports fields under their JSON
// names, so error maps line up with request payloads.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\-\s]{6,19}$`)

// validateStruct runs validator tags over a request struct and flattens the
// result into a field-keyed error map. An empty map means the struct passed.
func validateStruct(req any) map[string]string {
	fields := map[string]string{}
	err := validate.Struct(req)
	if err == nil {
		return fields
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["request"] = "invalid request"
		return fields
	}
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "this field is required"
		case "email":
			fields[fe.Field()] = "invalid email format"
		case "min":
			fields[fe.Field()] = "value is too short"
		case "max":
			fields[fe.Field()] = "value is too long"
		default:
			fields[fe.Field()] = "invalid value"
		}
	}
	return fields
}

// checkDate validates YYYY-MM-DD.
func checkDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// checkTime validates HH:MM, 24-hour.
func checkTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// checkPhone accepts digits with optional leading + and separators.
func checkPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// checkEnum reports membership of value in allowed.
func checkEnum(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}

// pageWindow clamps pagination parameters to sane bounds.
func pageWindow(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
