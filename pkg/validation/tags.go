package validation

import (
	"github.com/go-playground/validator/v10"
)

// RegisterTags adds the Brazilian document tags (cpf, cep, phone_br, uf,
// plate) to a validator instance.
func RegisterTags(v *validator.Validate) error {
	tags := map[string]func(string) bool{
		"cpf":      ValidCPF,
		"cep":      ValidCEP,
		"phone_br": ValidPhone,
		"uf":       ValidUF,
		"plate":    ValidPlate,
	}
	for tag, fn := range tags {
		check := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}
