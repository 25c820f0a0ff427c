package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/pet-shelter/internal/apperr"
)

// FormValidator adapts go-playground/validator to echo.Validator.  Field
// names in messages come from the `label` tag, falling back to `form`.
type FormValidator struct {
	v *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		return strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	})
	return &FormValidator{v: v}
}

// Validate returns an apperr validation error describing the first failed
// field.
func (fv *FormValidator) Validate(i interface{}) error {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation(apperr.CodeInvalidValue, "Invalid form submission.")
	}
	fe := verrs[0]
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return apperr.Required(fe.Field())
	case "email":
		return apperr.Validation(apperr.CodeInvalidValue, fe.Field()+" must be a valid email address.")
	case "min":
		return apperr.Validation(apperr.CodeInvalidValue, fe.Field()+" must be at least "+fe.Param()+unit+".")
	case "max":
		return apperr.Validation(apperr.CodeInvalidValue, fe.Field()+" must be at most "+fe.Param()+unit+".")
	case "oneof":
		return apperr.Validation(apperr.CodeInvalidValue, fe.Field()+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", ")+".")
	}
	return apperr.Validation(apperr.CodeInvalidValue, fe.Field()+" is invalid.")
}
