// Package validator проверяет validate-теги на DTO движка карты
// (события области, формы жалоб и запросов помощи).
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate возвращает validator.ValidationErrors, которые слой доставки
// переводит в 400 с кодом INVALID_INPUT.
func Validate(s interface{}) error {
	return validate.Struct(s)
}
