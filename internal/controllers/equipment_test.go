package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"equipment-inventory/internal/dto"
	"equipment-inventory/pkg/middleware"
	"equipment-inventory/pkg/outcome"
	"equipment-inventory/pkg/types"
	"equipment-inventory/pkg/validation"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubEquipmentService struct {
	search func(filter dto.EquipmentFilter, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error)
	find   func(id uint64) (*dto.EquipmentDTO, error)
	create func(draft dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error)
	update func(id uint64, draft dto.UpdateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error)
	remove func(id uint64) (bool, error)

	lastFilter dto.EquipmentFilter
	lastPage   [2]uint64
	searches   int
}

func (s *stubEquipmentService) GetEquipments(ctx context.Context, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
	return s.SearchEquipment(ctx, dto.EquipmentFilter{}, pageNumber, pageSize)
}

func (s *stubEquipmentService) SearchEquipment(_ context.Context, filter dto.EquipmentFilter, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
	s.searches++
	s.lastFilter = filter
	s.lastPage = [2]uint64{pageNumber, pageSize}
	if s.search != nil {
		return s.search(filter, pageNumber, pageSize)
	}
	return types.NewPagedResult[dto.EquipmentDTO](nil, 0, pageNumber, pageSize), nil
}

func (s *stubEquipmentService) GetEquipmentByCategory(ctx context.Context, categoryID, pageNumber, pageSize uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
	filter := dto.EquipmentFilter{}
	filter.CategoryID.Uint64, filter.CategoryID.Valid = categoryID, true
	return s.SearchEquipment(ctx, filter, pageNumber, pageSize)
}

func (s *stubEquipmentService) FindEquipment(_ context.Context, id uint64) (*dto.EquipmentDTO, error) {
	return s.find(id)
}

func (s *stubEquipmentService) CreateEquipment(_ context.Context, draft dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
	return s.create(draft)
}

func (s *stubEquipmentService) UpdateEquipment(_ context.Context, id uint64, draft dto.UpdateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
	return s.update(id, draft)
}

func (s *stubEquipmentService) DeleteEquipment(_ context.Context, id uint64) (bool, error) {
	return s.remove(id)
}

type stubExportService struct{ filter dto.EquipmentFilter }

func (s *stubExportService) ExportEquipment(_ context.Context, filter dto.EquipmentFilter) (*excelize.File, error) {
	s.filter = filter
	return excelize.NewFile(), nil
}

func newTestServer(service *stubEquipmentService, export *stubExportService) *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()

	ctrl := NewEquipmentController(service, export, zap.NewNop())
	g := e.Group("/api/equipment")
	g.GET("", ctrl.GetEquipments)
	g.GET("/export", ctrl.ExportEquipment)
	g.GET("/category/:categoryId", ctrl.GetEquipmentByCategory)
	g.GET("/:id", ctrl.FindEquipment)
	g.POST("", ctrl.CreateEquipment)
	g.POST("/search", ctrl.SearchEquipment)
	g.PUT("/:id", ctrl.UpdateEquipment)
	g.DELETE("/:id", ctrl.DeleteEquipment)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validDraft = `{
	"equipmentName": "Laptop",
	"serialNumber": "SN-001",
	"categoryId": 1,
	"locationId": 1,
	"purchaseDate": "2024-02-10T00:00:00Z",
	"status": "Active"
}`

func TestGetEquipments_DefaultPage(t *testing.T) {
	service := &stubEquipmentService{}
	rec := do(newTestServer(service, nil), http.MethodGet, "/api/equipment", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]uint64{1, 10}, service.lastPage)
	assert.True(t, service.lastFilter.IsEmpty())
}

func TestGetEquipments_PageBounds(t *testing.T) {
	for _, query := range []string{
		"?pageNumber=0",
		"?pageSize=0",
		"?pageSize=101",
		"?pageSize=abc",
		"?pageNumber=-1",
	} {
		service := &stubEquipmentService{}
		rec := do(newTestServer(service, nil), http.MethodGet, "/api/equipment"+query, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Zero(t, service.searches, query)
	}

	service := &stubEquipmentService{}
	rec := do(newTestServer(service, nil), http.MethodGet, "/api/equipment?pageNumber=3&pageSize=100", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]uint64{3, 100}, service.lastPage)
}

func TestGetEquipments_Fault(t *testing.T) {
	service := &stubEquipmentService{
		search: func(dto.EquipmentFilter, uint64, uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
			return nil, errors.New("db down")
		},
	}
	rec := do(newTestServer(service, nil), http.MethodGet, "/api/equipment", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestGetEquipmentByCategory(t *testing.T) {
	service := &stubEquipmentService{}
	rec := do(newTestServer(service, nil), http.MethodGet, "/api/equipment/category/4?pageSize=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(4), service.lastFilter.CategoryID.Uint64)
	assert.Equal(t, [2]uint64{1, 5}, service.lastPage)
}

func TestSearchEquipment(t *testing.T) {
	service := &stubEquipmentService{}
	body := `{"equipmentName":"lap","purchaseDate":"2024-02-10T00:00:00Z","categoryId":1,"pageNumber":2,"pageSize":20}`
	rec := do(newTestServer(service, nil), http.MethodPost, "/api/equipment/search", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "lap", service.lastFilter.Name.String)
	assert.True(t, service.lastFilter.PurchaseDate.Valid)
	assert.Equal(t, uint64(1), service.lastFilter.CategoryID.Uint64)
	assert.Equal(t, [2]uint64{2, 20}, service.lastPage)
}

func TestSearchEquipment_Bounds(t *testing.T) {
	service := &stubEquipmentService{}
	rec := do(newTestServer(service, nil), http.MethodPost, "/api/equipment/search", `{"pageSize":500}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, service.searches)
}

func TestFindEquipment(t *testing.T) {
	service := &stubEquipmentService{
		find: func(id uint64) (*dto.EquipmentDTO, error) {
			if id == 1 {
				return &dto.EquipmentDTO{ID: 1, Name: "Laptop"}, nil
			}
			return nil, errNotFoundForTest
		},
	}
	e := newTestServer(service, nil)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/equipment/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/equipment/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/equipment/abc", "").Code)
}

func TestCreateEquipment_Success(t *testing.T) {
	service := &stubEquipmentService{
		create: func(draft dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
			return outcome.Success(dto.EquipmentDTO{
				ID: 1, Name: draft.Name, SerialNumber: draft.SerialNumber,
				CategoryName: "Computers", LocationName: "Main Office",
				PurchaseDate: draft.PurchaseDate, Status: "Active",
			}), nil
		},
	}
	rec := do(newTestServer(service, nil), http.MethodPost, "/api/equipment", validDraft)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Status bool             `json:"status"`
		Body   dto.EquipmentDTO `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, "Computers", resp.Body.CategoryName)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), resp.Body.PurchaseDate.UTC())
}

func TestCreateEquipment_RequestShape(t *testing.T) {
	called := false
	service := &stubEquipmentService{
		create: func(dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
			called = true
			return outcome.Success(dto.EquipmentDTO{}), nil
		},
	}
	e := newTestServer(service, nil)

	short := strings.Replace(validDraft, `"Laptop"`, `"PC"`, 1)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment", short).Code)

	blank := strings.Replace(validDraft, `"SN-001"`, `"     "`, 1)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment", blank).Code)

	padded := strings.Replace(validDraft, `"Laptop"`, `"  PC  "`, 1)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment", padded).Code)

	paddedSerial := strings.Replace(validDraft, `"SN-001"`, `"  S1  "`, 1)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment", paddedSerial).Code)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment", `{"equipmentName":`).Code)
	assert.False(t, called)
}

func TestCreateEquipment_ReferenceIDsBeyondBigint(t *testing.T) {
	called := false
	service := &stubEquipmentService{
		create: func(dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
			called = true
			return outcome.Success(dto.EquipmentDTO{}), nil
		},
	}
	e := newTestServer(service, nil)

	category := strings.Replace(validDraft, `"categoryId": 1`, `"categoryId": 9223372036854775808`, 1)
	rec := do(e, http.MethodPost, "/api/equipment", category)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CategoryID")

	location := strings.Replace(validDraft, `"locationId": 1`, `"locationId": 18446744073709551615`, 1)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment", location).Code)
	assert.False(t, called)
}

func TestEquipmentIDBeyondBigint(t *testing.T) {
	calls := 0
	service := &stubEquipmentService{
		find:   func(uint64) (*dto.EquipmentDTO, error) { calls++; return nil, errNotFoundForTest },
		remove: func(uint64) (bool, error) { calls++; return false, nil },
		update: func(uint64, dto.UpdateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
			calls++
			return outcome.Success(dto.EquipmentDTO{}), nil
		},
	}
	export := &stubExportService{}
	e := newTestServer(service, export)

	const huge = "9223372036854775808"
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/equipment/"+huge, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodDelete, "/api/equipment/"+huge, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPut, "/api/equipment/"+huge, validDraft).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/equipment/category/"+huge, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/equipment/search", `{"categoryId":`+huge+`}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/equipment/export?categoryId="+huge, "").Code)
	assert.Zero(t, calls)
	assert.Zero(t, service.searches)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/api/equipment/9223372036854775807", "").Code)
	assert.Equal(t, 1, calls)
}

func TestEquipmentController_LogsWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	service := &stubEquipmentService{
		search: func(dto.EquipmentFilter, uint64, uint64) (*types.PagedResult[dto.EquipmentDTO], error) {
			return nil, errors.New("db down")
		},
	}

	e := echo.New()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: func() string { return "req-42" }}))
	e.Use(middleware.InjectLogger(zap.New(core)))
	ctrl := NewEquipmentController(service, nil, zap.NewNop())
	e.GET("/api/equipment", ctrl.GetEquipments)

	rec := do(e, http.MethodGet, "/api/equipment", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("HTTP Error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestCreateEquipment_OutcomeMapping(t *testing.T) {
	cases := map[outcome.Kind]int{
		outcome.KindValidation: http.StatusBadRequest,
		outcome.KindNotFound:   http.StatusNotFound,
		outcome.KindConflict:   http.StatusConflict,
	}
	for kind, code := range cases {
		service := &stubEquipmentService{
			create: func(dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
				return outcome.Failure[dto.EquipmentDTO](kind, "категория с id 999 не найдена"), nil
			},
		}
		rec := do(newTestServer(service, nil), http.MethodPost, "/api/equipment", validDraft)

		assert.Equal(t, code, rec.Code, kind.String())
		assert.Contains(t, rec.Body.String(), "999")
	}
}

func TestCreateEquipment_Fault(t *testing.T) {
	service := &stubEquipmentService{
		create: func(dto.CreateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
			return outcome.Outcome[dto.EquipmentDTO]{}, errors.New("retrieve failed")
		},
	}
	rec := do(newTestServer(service, nil), http.MethodPost, "/api/equipment", validDraft)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateEquipment(t *testing.T) {
	var gotID uint64
	service := &stubEquipmentService{
		update: func(id uint64, draft dto.UpdateEquipmentDTO) (outcome.Outcome[dto.EquipmentDTO], error) {
			gotID = id
			return outcome.Success(dto.EquipmentDTO{ID: id, Name: draft.Name}), nil
		},
	}
	rec := do(newTestServer(service, nil), http.MethodPut, "/api/equipment/7", validDraft)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), gotID)
}

func TestDeleteEquipment(t *testing.T) {
	service := &stubEquipmentService{
		remove: func(id uint64) (bool, error) { return id == 1, nil },
	}
	e := newTestServer(service, nil)

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/api/equipment/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/api/equipment/2", "").Code)
}

func TestExportEquipment(t *testing.T) {
	export := &stubExportService{}
	e := newTestServer(&stubEquipmentService{}, export)

	rec := do(e, http.MethodGet, "/api/equipment/export?equipmentName=lap&purchaseDate=2024-02-10&categoryId=3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheetml")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "equipment_")
	assert.Equal(t, "lap", export.filter.Name.String)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), export.filter.PurchaseDate.Time)
	assert.Equal(t, uint64(3), export.filter.CategoryID.Uint64)
	assert.NotZero(t, rec.Body.Len())

	rec = do(e, http.MethodGet, "/api/equipment/export?purchaseDate=10.02.2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
