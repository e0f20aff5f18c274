// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"lingopress/internal/slug"
)

// embeddedName names embedded structs in error namespaces. fieldMessage
// drops it so promoted fields read like top-level ones.
const embeddedName = "_"

// newValidator returns a validator that reports JSON field names and knows
// the "slug" tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if f.Anonymous {
			return embeddedName
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	return v
}

// validationMessages turns validator errors into one readable line per
// field. Other errors are returned as a single message.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

// fieldName is the JSON path of the failing field without the top-level
// struct name.
func fieldName(fe validator.FieldError) string {
	segs := strings.Split(fe.Namespace(), ".")
	if len(segs) > 1 {
		segs = segs[1:]
	}
	segs = slices.DeleteFunc(segs, func(s string) bool { return s == embeddedName })
	return strings.Join(segs, ".")
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldName(fe)

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "slug":
		return field + " must contain only lowercase letters, digits and single hyphens"
	case "url":
		return field + " must be an absolute URL"
	case "bcp47_language_tag":
		return field + " must be a language tag such as en or zh-TW"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
