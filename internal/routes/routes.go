package routes

import (
	"equipment-inventory/internal/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)

	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	categoryRepo := repositories.NewCategoryRepository(dbConn)
	locationRepo := repositories.NewLocationRepository(dbConn)

	runEquipmentRouter(api, txManager, equipmentRepo, categoryRepo, locationRepo, logger)
	runCategoryRouter(api, categoryRepo, logger)
	runLocationRouter(api, locationRepo, logger)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
