package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	apperrors "equipment-inventory/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxPageSize       = 100

	dateLayout = "2006-01-02"

	// идентификаторы хранятся в BIGINT
	maxID = math.MaxInt64
)

// checkPage проверяет границы страницы: номер с единицы, размер от 1 до 100.
func checkPage(pageNumber, pageSize uint64) *apperrors.HttpError {
	if pageNumber < 1 {
		return apperrors.NewHttpError(http.StatusBadRequest, "Номер страницы должен быть не меньше 1", apperrors.ErrBadRequest,
			map[string]interface{}{"pageNumber": pageNumber})
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("Размер страницы должен быть от 1 до %d", maxPageSize), apperrors.ErrBadRequest,
			map[string]interface{}{"pageSize": pageSize})
	}
	return nil
}

// pageFromQuery читает pageNumber и pageSize; отсутствующие получают значения по умолчанию.
func pageFromQuery(ctx echo.Context) (uint64, uint64, *apperrors.HttpError) {
	pageNumber, err := uintQueryParam(ctx, "pageNumber", defaultPageNumber)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := uintQueryParam(ctx, "pageSize", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if err := checkPage(pageNumber, pageSize); err != nil {
		return 0, 0, err
	}
	return pageNumber, pageSize, nil
}

func pageFromBody(pageNumber, pageSize null.Uint64) (uint64, uint64, *apperrors.HttpError) {
	number, size := pageNumber.Uint64, pageSize.Uint64
	if !pageNumber.Valid {
		number = defaultPageNumber
	}
	if !pageSize.Valid {
		size = defaultPageSize
	}
	if err := checkPage(number, size); err != nil {
		return 0, 0, err
	}
	return number, size, nil
}

func uintQueryParam(ctx echo.Context, name string, fallback uint64) (uint64, *apperrors.HttpError) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("Неверный формат параметра %s", name), err,
			map[string]interface{}{"param": raw})
	}
	return value, nil
}

// idParam принимает id от 1 до maxID.
func idParam(ctx echo.Context, name string) (uint64, *apperrors.HttpError) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err == nil && (id == 0 || id > maxID) {
		err = apperrors.ErrBadRequest
	}
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err,
			map[string]interface{}{"param": raw})
	}
	return id, nil
}

// dateQueryParam принимает дату в виде YYYY-MM-DD или RFC3339.
func dateQueryParam(ctx echo.Context, name string) (null.Time, *apperrors.HttpError) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return null.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return null.TimeFrom(t), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return null.Time{}, apperrors.NewHttpError(http.StatusBadRequest, fmt.Sprintf("Неверный формат даты %s", name), err,
			map[string]interface{}{"param": raw})
	}
	return null.TimeFrom(t), nil
}
