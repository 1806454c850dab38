package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taxifrota/pkg/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validation.RegisterTags(v); err != nil {
		panic(err)
	}
	return v
}

var tagMessages = map[string]string{
	"required": "campo obrigatório",
	"email":    "email inválido",
	"cpf":      "CPF inválido",
	"cep":      "CEP inválido",
	"phone_br": "telefone inválido",
	"uf":       "estado inválido",
	"plate":    "placa inválida",
	"oneof":    "valor não permitido",
	"min":      "valor abaixo do mínimo",
	"max":      "valor acima do máximo",
	"gte":      "valor abaixo do mínimo",
	"lte":      "valor acima do máximo",
	"gtfield":  "data final antes da inicial",
	"gtefield": "data final antes da inicial",
}

// check runs the struct tags and converts failures into a ValidationError
// keyed by json field path (address.cep, references[0].phone).
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), fieldMessage(fe.Tag()))
	}
	return out
}

func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(tag string) string {
	if msg, ok := tagMessages[tag]; ok {
		return msg
	}
	return "valor inválido"
}
