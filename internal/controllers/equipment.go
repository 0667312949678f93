package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"equipment-inventory/internal/dto"
	"equipment-inventory/internal/services"
	"equipment-inventory/pkg/api"
	apperrors "equipment-inventory/pkg/errors"
	"equipment-inventory/pkg/middleware"
	"equipment-inventory/pkg/outcome"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	exportService    services.EquipmentExportServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	exportService services.EquipmentExportServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		exportService:    exportService,
		logger:           logger,
	}
}

// log возвращает логгер запроса с request id.
func (c *EquipmentController) log(ctx echo.Context) *zap.Logger {
	return middleware.LoggerFrom(ctx, c.logger)
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	pageNumber, pageSize, httpErr := pageFromQuery(ctx)
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}

	res, err := c.equipmentService.GetEquipments(ctx.Request().Context(), pageNumber, pageSize)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось получить список оборудования", err, nil), c.log(ctx))
	}

	return api.SuccessPage(ctx, "Список оборудования успешно получен", res)
}

func (c *EquipmentController) SearchEquipment(ctx echo.Context) error {
	var req dto.EquipmentSearchDTO
	if err := ctx.Bind(&req); err != nil {
		c.log(ctx).Error("SearchEquipment: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest,
			"Неверный формат данных в теле запроса", err, nil), c.log(ctx))
	}
	if err := ctx.Validate(&req); err != nil {
		return api.ErrorResponse(ctx, err, c.log(ctx))
	}

	pageNumber, pageSize, httpErr := pageFromBody(req.PageNumber, req.PageSize)
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}

	filter := dto.EquipmentFilter{
		Name:         req.EquipmentName,
		PurchaseDate: req.PurchaseDate,
		CategoryID:   req.CategoryID,
	}
	res, err := c.equipmentService.SearchEquipment(ctx.Request().Context(), filter, pageNumber, pageSize)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось выполнить поиск оборудования", err, nil), c.log(ctx))
	}

	return api.SuccessPage(ctx, "Поиск оборудования выполнен", res)
}

func (c *EquipmentController) GetEquipmentByCategory(ctx echo.Context) error {
	categoryID, httpErr := idParam(ctx, "categoryId")
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}
	pageNumber, pageSize, httpErr := pageFromQuery(ctx)
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}

	res, err := c.equipmentService.GetEquipmentByCategory(ctx.Request().Context(), categoryID, pageNumber, pageSize)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось получить оборудование категории", err, nil), c.log(ctx))
	}

	return api.SuccessPage(ctx, "Оборудование категории успешно получено", res)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, httpErr := idParam(ctx, "id")
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusNotFound,
				fmt.Sprintf("Оборудование с id %d не найдено", id), nil, nil), c.log(ctx))
		}
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось найти оборудование", err, nil), c.log(ctx))
	}

	return api.SuccessOne(ctx, http.StatusOK, "Оборудование успешно найдено", res)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var req dto.CreateEquipmentDTO
	if err := ctx.Bind(&req); err != nil {
		c.log(ctx).Error("CreateEquipment: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest,
			"Неверный формат данных в теле запроса", err, nil), c.log(ctx))
	}
	if err := ctx.Validate(&req); err != nil {
		c.log(ctx).Debug("CreateEquipment: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err, c.log(ctx))
	}

	res, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), req)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось создать оборудование", err, nil), c.log(ctx))
	}

	return c.respondOutcome(ctx, res, http.StatusCreated, "Оборудование успешно создано")
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, httpErr := idParam(ctx, "id")
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}

	var req dto.UpdateEquipmentDTO
	if err := ctx.Bind(&req); err != nil {
		c.log(ctx).Error("UpdateEquipment: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest,
			"Неверный формат данных в теле запроса", err, nil), c.log(ctx))
	}
	if err := ctx.Validate(&req); err != nil {
		c.log(ctx).Debug("UpdateEquipment: ошибка валидации данных", zap.Error(err))
		return api.ErrorResponse(ctx, err, c.log(ctx))
	}

	res, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, req)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось обновить оборудование", err, nil), c.log(ctx))
	}

	return c.respondOutcome(ctx, res, http.StatusOK, "Оборудование успешно обновлено")
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, httpErr := idParam(ctx, "id")
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}

	deleted, err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось удалить оборудование", err, nil), c.log(ctx))
	}
	if !deleted {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusNotFound,
			fmt.Sprintf("Оборудование с id %d не найдено", id), nil, nil), c.log(ctx))
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ExportEquipment отдаёт отфильтрованную выборку файлом xlsx.
// Фильтры: equipmentName, purchaseDate (YYYY-MM-DD), categoryId.
func (c *EquipmentController) ExportEquipment(ctx echo.Context) error {
	filter := dto.EquipmentFilter{}
	if name := strings.TrimSpace(ctx.QueryParam("equipmentName")); name != "" {
		filter.Name = null.StringFrom(name)
	}
	purchaseDate, httpErr := dateQueryParam(ctx, "purchaseDate")
	if httpErr != nil {
		return api.ErrorResponse(ctx, httpErr, c.log(ctx))
	}
	filter.PurchaseDate = purchaseDate
	if ctx.QueryParam("categoryId") != "" {
		categoryID, httpErr := uintQueryParam(ctx, "categoryId", 0)
		if httpErr == nil && categoryID > maxID {
			httpErr = apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат параметра categoryId", apperrors.ErrBadRequest,
				map[string]interface{}{"param": categoryID})
		}
		if httpErr != nil {
			return api.ErrorResponse(ctx, httpErr, c.log(ctx))
		}
		filter.CategoryID = null.Uint64From(categoryID)
	}

	book, err := c.exportService.ExportEquipment(ctx.Request().Context(), filter)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError,
			"Не удалось сформировать выгрузку", err, nil), c.log(ctx))
	}
	defer book.Close()

	fileName := fmt.Sprintf("equipment_%s.xlsx", time.Now().Format(dateLayout))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return book.Write(ctx.Response().Writer)
}

// respondOutcome переводит отказ в код ответа по его виду.
func (c *EquipmentController) respondOutcome(ctx echo.Context, res outcome.Outcome[dto.EquipmentDTO], successCode int, message string) error {
	if value, ok := res.Value(); ok {
		return api.SuccessOne(ctx, successCode, message, value)
	}

	code := http.StatusBadRequest
	switch res.Kind() {
	case outcome.KindNotFound:
		code = http.StatusNotFound
	case outcome.KindConflict:
		code = http.StatusConflict
	}
	return api.ErrorResponse(ctx, apperrors.NewHttpError(code, res.Message(), nil,
		map[string]string{"kind": res.Kind().String()}), c.log(ctx))
}
