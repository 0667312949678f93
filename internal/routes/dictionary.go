package routes

import (
	"equipment-inventory/internal/controllers"
	"equipment-inventory/internal/repositories"
	"equipment-inventory/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runCategoryRouter(api *echo.Group, categoryRepo repositories.CategoryRepositoryInterface, logger *zap.Logger) {
	categoryService := services.NewCategoryService(categoryRepo, logger)
	categoryCtrl := controllers.NewCategoryController(categoryService, logger)

	api.GET("/categories", categoryCtrl.GetCategories)
}

func runLocationRouter(api *echo.Group, locationRepo repositories.LocationRepositoryInterface, logger *zap.Logger) {
	locationService := services.NewLocationService(locationRepo, logger)
	locationCtrl := controllers.NewLocationController(locationService, logger)

	api.GET("/locations", locationCtrl.GetLocations)
}
