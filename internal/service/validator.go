package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/tutoria-api/internal/models"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
)

// NewValidator returns a validator that reports json field names and knows the
// serie and ocorrencia catalogues.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerCatalogRules(v)
	return v
}

func registerCatalogRules(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("serie", func(fl validator.FieldLevel) bool {
		return models.IsSerie(fl.Field().String())
	})
	_ = v.RegisterValidation("ocorrencia", func(fl validator.FieldLevel) bool {
		return models.IsOcorrencia(fl.Field().String())
	})
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s é obrigatório", fe.Field()))
		case "serie":
			messages = append(messages, fmt.Sprintf("série inválida: %q", fe.Value()))
		case "ocorrencia":
			messages = append(messages, fmt.Sprintf("ocorrência inválida: %q", fe.Value()))
		default:
			messages = append(messages, fmt.Sprintf("%s inválido", fe.Field()))
		}
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, strings.Join(messages, "; "))
}
