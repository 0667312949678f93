package services

import (
	"context"
	"fmt"

	"equipment-inventory/internal/dto"
	"equipment-inventory/internal/repositories"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheet     = "Оборудование"
	exportBatchSize = 100
	exportDateFmt   = "02.01.2006"
)

var exportHeaders = []string{
	"ID", "Наименование", "Серийный номер", "Категория", "Локация", "Дата покупки", "Статус",
}

type EquipmentExportServiceInterface interface {
	ExportEquipment(ctx context.Context, filter dto.EquipmentFilter) (*excelize.File, error)
}

type EquipmentExportService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentExportService(equipmentRepository repositories.EquipmentRepositoryInterface, logger *zap.Logger) *EquipmentExportService {
	return &EquipmentExportService{equipmentRepository: equipmentRepository, logger: logger}
}

// ExportEquipment выгружает всю отфильтрованную выборку в одну книгу, читая её пачками.
// Закрыть книгу должен вызывающий.
func (s *EquipmentExportService) ExportEquipment(ctx context.Context, filter dto.EquipmentFilter) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("ошибка подготовки листа: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		f.Close()
		return nil, fmt.Errorf("ошибка записи заголовков: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "G1", style)
	}

	row := 2
	for offset := uint64(0); ; offset += exportBatchSize {
		items, total, err := s.equipmentRepository.GetEquipments(ctx, filter, exportBatchSize, offset)
		if err != nil {
			f.Close()
			s.logger.Error("Ошибка при выгрузке оборудования", zap.Error(err))
			return nil, err
		}
		for _, item := range items {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := equipmentToRow(item)
			if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("ошибка записи строки %d: %w", row, err)
			}
			row++
		}
		if len(items) == 0 || offset+exportBatchSize >= total {
			break
		}
	}

	_ = f.SetColWidth(exportSheet, "B", "C", 25)
	_ = f.SetColWidth(exportSheet, "D", "E", 20)
	_ = f.SetColWidth(exportSheet, "F", "G", 15)

	s.logger.Info("Выгрузка оборудования сформирована", zap.Int("rows", row-2))
	return f, nil
}

func equipmentToRow(item dto.EquipmentDTO) []interface{} {
	return []interface{}{
		item.ID,
		item.Name,
		item.SerialNumber,
		item.CategoryName,
		item.LocationName,
		item.PurchaseDate.Format(exportDateFmt),
		item.Status,
	}
}
