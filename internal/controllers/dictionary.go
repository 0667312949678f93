package controllers

import (
	"net/http"

	"equipment-inventory/internal/services"
	"equipment-inventory/pkg/api"
	apperrors "equipment-inventory/pkg/errors"
	"equipment-inventory/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CategoryController struct {
	categoryService services.CategoryServiceInterface
	logger          *zap.Logger
}

func NewCategoryController(service services.CategoryServiceInterface, logger *zap.Logger) *CategoryController {
	return &CategoryController{categoryService: service, logger: logger}
}

func (c *CategoryController) log(ctx echo.Context) *zap.Logger {
	return middleware.LoggerFrom(ctx, c.logger)
}

func (c *CategoryController) GetCategories(ctx echo.Context) error {
	res, err := c.categoryService.GetCategories(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось получить список категорий", err, nil), c.log(ctx))
	}
	return api.SuccessList(ctx, "Список категорий успешно получен", res)
}

type LocationController struct {
	locationService services.LocationServiceInterface
	logger          *zap.Logger
}

func NewLocationController(service services.LocationServiceInterface, logger *zap.Logger) *LocationController {
	return &LocationController{locationService: service, logger: logger}
}

func (c *LocationController) log(ctx echo.Context) *zap.Logger {
	return middleware.LoggerFrom(ctx, c.logger)
}

func (c *LocationController) GetLocations(ctx echo.Context) error {
	res, err := c.locationService.GetLocations(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось получить список локаций", err, nil), c.log(ctx))
	}
	return api.SuccessList(ctx, "Список локаций успешно получен", res)
}
