package helper

import (
	"errors"
	"reflect"
	"strings"

	"multiblog/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

// Validator checks request structs against their `validate` tags and
// reports failures as models.ErrorValidation with English messages.
type Validator struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

func NewValidator() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &Validator{Validate: validate, Translator: trans}
}

// ValidateStruct returns nil, a models.ErrorValidation, or the validator's
// own error for input that is not a struct.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.Validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := models.ErrorValidation{}
	for _, fe := range validationErrors {
		result.Fields = append(result.Fields, models.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.Translator),
		})
	}
	return result
}
