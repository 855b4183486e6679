// Package validator validates request structs with go-playground/validator and
// reports failures keyed by json field name.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire layout of calendar dates.
const DateLayout = "2006-01-02"

var (
	validate  = newValidate()
	phoneRe   = regexp.MustCompile(`^0\d{9}$`)
	clockRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	objectIDs = regexp.MustCompile(`^[0-9a-f]{24}$`)
)

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clockRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return objectIDs.MatchString(fl.Field().String())
	})
	return v
}

// errorMessages maps validation tags to friendly messages.
var errorMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gt":       "%s must be greater than %s",
	"lt":       "%s must be less than %s",
	"oneof":    "%s must be one of [%s]",
	"phone10":  "%s must be 10 digits starting with 0",
	"hhmm":     "%s must be a time in HH:MM format",
	"date":     "%s must be a date in YYYY-MM-DD format",
	"objectid": "%s must be a valid id",
	"dive":     "%s contains an invalid value",
	"url":      "%s must be a valid URL",
}

func parseMessage(e validator.FieldError) string {
	name := e.Field()
	if msg, ok := errorMessages[e.Tag()]; ok {
		if strings.Count(msg, "%s") == 2 {
			return fmt.Sprintf(msg, name, e.Param())
		}
		return fmt.Sprintf(msg, name)
	}
	return fmt.Sprintf("%s is invalid: %s", name, e.Tag())
}

// ValidateStruct validates s and returns a map of json field names to messages.
// The map is empty when s is valid.
func ValidateStruct(s any) map[string]string {
	validationErrors := make(map[string]string)
	err := validate.Struct(s)
	if err == nil {
		return validationErrors
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		validationErrors["_"] = err.Error()
		return validationErrors
	}
	for _, e := range errs {
		key := fieldPath(e.Namespace())
		if _, exists := validationErrors[key]; !exists {
			validationErrors[key] = parseMessage(e)
		}
	}
	return validationErrors
}

// Var validates a single value against tag.
func Var(field any, tag string) bool {
	return validate.Var(field, tag) == nil
}

// fieldPath drops the root struct name from a namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
