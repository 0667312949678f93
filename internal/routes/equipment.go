package routes

import (
	"equipment-inventory/internal/controllers"
	"equipment-inventory/internal/repositories"
	"equipment-inventory/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEquipmentRouter(
	api *echo.Group,
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	logger *zap.Logger,
) {
	var (
		equipmentService = services.NewEquipmentService(txManager, equipmentRepo, categoryRepo, locationRepo, logger)
		exportService    = services.NewEquipmentExportService(equipmentRepo, logger)
		equipmentCtrl    = controllers.NewEquipmentController(equipmentService, exportService, logger)
	)

	group := api.Group("/equipment")
	{
		group.GET("", equipmentCtrl.GetEquipments)
		group.GET("/export", equipmentCtrl.ExportEquipment)
		group.GET("/category/:categoryId", equipmentCtrl.GetEquipmentByCategory)
		group.GET("/:id", equipmentCtrl.FindEquipment)
		group.POST("", equipmentCtrl.CreateEquipment)
		group.POST("/search", equipmentCtrl.SearchEquipment)
		group.PUT("/:id", equipmentCtrl.UpdateEquipment)
		group.DELETE("/:id", equipmentCtrl.DeleteEquipment)
	}
}
