package errors

import (
	"errors"
	"fmt"
)

var (
	// Хранилище
	ErrNotFound         = errors.New("запись не найдена")
	ErrSerialConflict   = errors.New("серийный номер уже занят")
	ErrReferenceMissing = errors.New("ссылка на несуществующую категорию или локацию")
	ErrRetrieveFailed   = errors.New("не удалось получить сохранённую запись")

	// Входные данные
	ErrMalformedStatus = errors.New("неизвестный статус оборудования")
	ErrBadRequest      = errors.New("неверный запрос")
)

// HttpError несёт код ответа и сообщение для клиента; Err остаётся только в логах.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}
