package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "equipment-inventory/pkg/errors"
	"equipment-inventory/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body"`
}

// errorBody не отдаёт body, если деталей нет.
type errorBody struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
}

// SuccessOne для возврата одного объекта
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T) error {
	if list == nil {
		list = make([]T, 0)
	}
	return SuccessOne(c, http.StatusOK, message, list)
}

func SuccessPage[T any](c echo.Context, message string, page *types.PagedResult[T]) error {
	return SuccessOne(c, http.StatusOK, message, page)
}

// ErrorResponse отдаёт клиенту только сообщение и детали; причина ошибки пишется в лог.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		return c.JSON(httpErr.Code, errorBody{
			Status:  false,
			Message: httpErr.Message,
			Body:    httpErr.Details,
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
			fields[e.Field()] = e.Tag()
		}
		return c.JSON(http.StatusBadRequest, errorBody{
			Status:  false,
			Message: "Ошибка валидации: " + strings.Join(msgs, "; "),
			Body:    fields,
		})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, errorBody{
			Status:  false,
			Message: fmt.Sprint(echoErr.Message),
		})
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{Status: false, Message: err.Error()})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorBody{
		Status:  false,
		Message: "Внутренняя ошибка сервера",
	})
}

// HTTPErrorHandler приводит ошибки, не обработанные контроллерами (404 роутера, паники), к общему формату.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if respErr := ErrorResponse(c, err, logger); respErr != nil {
			logger.Error("не удалось отправить ответ об ошибке", zap.Error(respErr))
		}
	}
}
