package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/PabloPavan/pastebox/internal/pastes"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(field.String()) != ""
	})
	validate.RegisterValidation("maxlines", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		raw := field.String()
		lines := strings.Count(raw, "\n") + 1
		return lines <= maxLinesFromParam(fl.Param())
	})
	validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return pastes.KnownLanguage(strings.TrimSpace(field.String()))
	})
}

type PasteCreateDTO struct {
	Title     string        `json:"title" validate:"max=200"`
	Content   string        `json:"content" validate:"required,notblank,max=250000,maxlines=5000"`
	Language  string        `json:"language" validate:"omitempty,language"`
	Expiry    pastes.Expiry `json:"expiry" validate:"omitempty,oneof=never 1h 1d 1w 1m"`
	IsPrivate bool          `json:"is_private"`
	Password  string        `json:"password" validate:"omitempty,notblank,max=72"`
}

func (r *PasteCreateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Title": {
				"max": "title is too long",
			},
			"Content": {
				"required": "content is required",
				"notblank": "content is required",
				"max":      "content is too long",
				"maxlines": "content has too many lines",
			},
			"Language": {
				"language": "unknown language",
			},
			"Expiry": {
				"oneof": "unknown expiry",
			},
			"Password": {
				"notblank": "invalid password",
				"max":      "password is too long",
			},
		}, "invalid request")
	}
	return nil
}

func validationMessage(err error, messages map[string]map[string]string, fallback string) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.New(fallback)
	}
	for _, valErr := range valErrs {
		if fieldMessages, ok := messages[valErr.Field()]; ok {
			if msg, ok := fieldMessages[valErr.Tag()]; ok {
				return errors.New(msg)
			}
			if msg, ok := fieldMessages["*"]; ok {
				return errors.New(msg)
			}
		}
	}
	return errors.New(fallback)
}

func maxLinesFromParam(param string) int {
	n := 0
	for _, r := range param {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
