package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank": isNotBlank,
		"trimmin":  hasTrimmedMin,
		"trimmax":  hasTrimmedMax,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// isNotBlank - строка не состоит из одних пробелов
func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// hasTrimmedMin - длина в символах без краевых пробелов не меньше параметра.
// Сервисы сохраняют строки обрезанными.
func hasTrimmedMin(fl validator.FieldLevel) bool {
	return trimmedLen(fl) >= lengthParam(fl)
}

func hasTrimmedMax(fl validator.FieldLevel) bool {
	return trimmedLen(fl) <= lengthParam(fl)
}

func trimmedLen(fl validator.FieldLevel) int {
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
}

// lengthParam паникует на неверном параметре, как и встроенные правила validator.
func lengthParam(fl validator.FieldLevel) int {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic("неверный параметр правила " + fl.GetTag() + ": " + fl.Param())
	}
	return n
}
