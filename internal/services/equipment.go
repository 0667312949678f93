package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"equipment-inventory/internal/dto"
	"equipment-inventory/internal/entities"
	"equipment-inventory/internal/repositories"
	apperrors "equipment-inventory/pkg/errors"
	"equipment-inventory/pkg/outcome"
	"equipment-inventory/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error)
	SearchEquipment(ctx context.Context, filter dto.EquipmentFilter, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error)
	GetEquipmentByCategory(ctx context.Context, categoryID, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, draft dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error)
	UpdateEquipment(ctx context.Context, id uint64, draft dto.UpdateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error)
	DeleteEquipment(ctx context.Context, id uint64) (bool, error)
}

type EquipmentService struct {
	txManager           repositories.TxManagerInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	categoryRepository  repositories.CategoryRepositoryInterface
	locationRepository  repositories.LocationRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	categoryRepository repositories.CategoryRepositoryInterface,
	locationRepository repositories.LocationRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		txManager:           txManager,
		equipmentRepository: equipmentRepository,
		categoryRepository:  categoryRepository,
		locationRepository:  locationRepository,
		logger:              logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
	return s.SearchEquipment(ctx, dto.EquipmentFilter{}, pageNumber, pageSize)
}

// SearchEquipment применяет только заданные условия фильтра.
// Страница за пределами выборки не ошибка: вернётся пустой список и полный totalCount.
func (s *EquipmentService) SearchEquipment(ctx context.Context, filter dto.EquipmentFilter, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
	if filter.Name.Valid && strings.TrimSpace(filter.Name.String) == "" {
		filter.Name.Valid = false
	}

	items, total, err := s.equipmentRepository.GetEquipments(ctx, filter, pageSize, types.Offset(pageNumber, pageSize))
	if err != nil {
		s.logger.Error("Ошибка при получении списка оборудования", zap.Any("filter", filter), zap.Error(err))
		return nil, err
	}
	return types.NewPagedResult(items, total, pageNumber, pageSize), nil
}

func (s *EquipmentService) GetEquipmentByCategory(ctx context.Context, categoryID, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
	filter := dto.EquipmentFilter{CategoryID: null.Uint64From(categoryID)}
	return s.SearchEquipment(ctx, filter, pageNumber, pageSize)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	return s.equipmentRepository.FindEquipment(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, draft dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
	status, rejected := parseDraftStatus(draft.Status)
	if rejected != nil {
		return *rejected, nil
	}

	equipment := draftToEntity(draft, status)
	var result *outcome.Outcome[dto.EquipmentDTO]

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipmentRepo := s.equipmentRepository.WithTx(tx)

		var err error
		result, err = s.checkDraft(ctx, tx, equipment, "")
		if err != nil || result != nil {
			return err
		}

		equipment.ID, err = equipmentRepo.CreateEquipment(ctx, equipment)
		return err
	})
	if err != nil {
		return s.writeFailure(err, equipment)
	}
	if result != nil {
		s.logger.Info("Создание оборудования отклонено", zap.String("reason", result.Message()))
		return *result, nil
	}

	s.logger.Info("Оборудование успешно создано", zap.Uint64("id", equipment.ID), zap.String("serial_number", equipment.SerialNumber))
	return s.reread(ctx, equipment.ID)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, draft dto.UpdateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
	var result *outcome.Outcome[dto.EquipmentDTO]
	var equipment entities.Equipment

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipmentRepo := s.equipmentRepository.WithTx(tx)

		current, err := equipmentRepo.FindEquipmentEntity(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result = failure(outcome.KindNotFound, "оборудование с id %d не найдено", id)
				return nil
			}
			return err
		}

		status, rejected := parseDraftStatus(draft.Status)
		if rejected != nil {
			result = rejected
			return nil
		}

		equipment = draftToEntity(draft, status)
		equipment.ID = id

		result, err = s.checkDraft(ctx, tx, equipment, current.SerialNumber)
		if err != nil || result != nil {
			return err
		}

		return equipmentRepo.UpdateEquipment(ctx, equipment)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// запись удалили между проверкой и обновлением
			return outcome.Failure[dto.EquipmentDTO](outcome.KindNotFound, fmt.Sprintf("оборудование с id %d не найдено", id)), nil
		}
		return s.writeFailure(err, equipment)
	}
	if result != nil {
		s.logger.Info("Обновление оборудования отклонено", zap.Uint64("id", id), zap.String("reason", result.Message()))
		return *result, nil
	}

	s.logger.Info("Оборудование успешно обновлено", zap.Uint64("id", id))
	return s.reread(ctx, id)
}

// DeleteEquipment возвращает false, если записи не было.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) (bool, error) {
	deleted, err := s.equipmentRepository.DeleteEquipment(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка при удалении оборудования", zap.Uint64("id", id), zap.Error(err))
		return false, err
	}
	if deleted {
		s.logger.Info("Оборудование удалено", zap.Uint64("id", id))
	}
	return deleted, nil
}

// checkDraft проверяет по порядку: серийный номер, категорию, локацию.
// Первая неудачная проверка возвращается как отказ, остальные не выполняются.
// currentSerial пуст при создании; при обновлении неизменённый номер не проверяется.
func (s *EquipmentService) checkDraft(ctx context.Context, tx pgx.Tx, equipment entities.Equipment, currentSerial string) (*outcome.Outcome[dto.EquipmentDTO], error) {
	if currentSerial == "" || equipment.SerialNumber != currentSerial {
		taken, err := s.equipmentRepository.WithTx(tx).SerialNumberExists(ctx, equipment.SerialNumber, equipment.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return failure(outcome.KindValidation, "оборудование с серийным номером '%s' уже существует", equipment.SerialNumber), nil
		}
	}

	categoryExists, err := s.categoryRepository.WithTx(tx).CategoryExists(ctx, equipment.CategoryID)
	if err != nil {
		return nil, err
	}
	if !categoryExists {
		return failure(outcome.KindValidation, "категория с id %d не найдена", equipment.CategoryID), nil
	}

	locationExists, err := s.locationRepository.WithTx(tx).LocationExists(ctx, equipment.LocationID)
	if err != nil {
		return nil, err
	}
	if !locationExists {
		return failure(outcome.KindValidation, "локация с id %d не найдена", equipment.LocationID), nil
	}

	return nil, nil
}

// writeFailure разбирает ошибку записи: нарушения ограничений хранилища
// становятся отказом, остальное возвращается как сбой.
func (s *EquipmentService) writeFailure(err error, equipment entities.Equipment) (outcome.Outcome[dto.EquipmentDTO], error) {
	switch {
	case errors.Is(err, apperrors.ErrSerialConflict):
		s.logger.Warn("Серийный номер занят параллельной записью", zap.String("serial_number", equipment.SerialNumber), zap.Error(err))
		return *failure(outcome.KindConflict, "серийный номер '%s' уже занят другой записью", equipment.SerialNumber), nil
	case errors.Is(err, apperrors.ErrReferenceMissing):
		s.logger.Warn("Категория или локация удалена во время записи", zap.Error(err))
		return *failure(outcome.KindValidation, "категория с id %d или локация с id %d не найдена", equipment.CategoryID, equipment.LocationID), nil
	default:
		s.logger.Error("Ошибка при сохранении оборудования", zap.Any("payload", equipment), zap.Error(err))
		return outcome.Outcome[dto.EquipmentDTO]{}, err
	}
}

// reread читает сохранённую запись через проекцию. Пустой результат после
// успешной записи означает рассогласование хранилища и возвращается как сбой.
func (s *EquipmentService) reread(ctx context.Context, id uint64) (outcome.Outcome[dto.EquipmentDTO], error) {
	saved, err := s.equipmentRepository.FindEquipment(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			err = fmt.Errorf("%w: id %d", apperrors.ErrRetrieveFailed, id)
		}
		s.logger.Error("Не удалось перечитать сохранённое оборудование", zap.Uint64("id", id), zap.Error(err))
		return outcome.Outcome[dto.EquipmentDTO]{}, err
	}
	return outcome.Success(*saved), nil
}

// parseDraftStatus подставляет Active для пустого статуса, нераспознанный текст отклоняет.
func parseDraftStatus(text string) (entities.EquipmentStatus, *outcome.Outcome[dto.EquipmentDTO]) {
	if strings.TrimSpace(text) == "" {
		return entities.StatusActive, nil
	}
	status, err := entities.ParseEquipmentStatus(text)
	if err != nil {
		return 0, failure(outcome.KindValidation, "%s, допустимые значения: %s",
			err.Error(), strings.Join(entities.EquipmentStatusNames(), ", "))
	}
	return status, nil
}

func draftToEntity(draft dto.EquipmentDraftDTO, status entities.EquipmentStatus) entities.Equipment {
	return entities.Equipment{
		Name:         strings.TrimSpace(draft.Name),
		SerialNumber: strings.TrimSpace(draft.SerialNumber),
		CategoryID:   draft.CategoryID,
		LocationID:   draft.LocationID,
		PurchaseDate: draft.PurchaseDate,
		Status:       status,
	}
}

func failure(kind outcome.Kind, format string, args ...interface{}) *outcome.Outcome[dto.EquipmentDTO] {
	o := outcome.Failure[dto.EquipmentDTO](kind, fmt.Sprintf(format, args...))
	return &o
}
