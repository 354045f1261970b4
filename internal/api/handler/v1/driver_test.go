package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/service"
)

type stubDriverService struct {
	drivers  []domain.Driver
	lastSort string
	addErr   error
	editErr  error
}

func (s *stubDriverService) GetDrivers(_ context.Context, sort string) ([]domain.Driver, error) {
	s.lastSort = sort

	return s.drivers, nil
}

func (s *stubDriverService) GetDriver(_ context.Context, _ uint) (domain.Driver, error) {
	return domain.Driver{}, service.ErrDriverNotFound
}

func (s *stubDriverService) AddDriver(_ context.Context, driver domain.Driver) (domain.Driver, error) {
	if s.addErr != nil {
		return domain.Driver{}, s.addErr
	}

	driver.ID = 1

	return driver, nil
}

func (s *stubDriverService) EditDriver(_ context.Context, id uint, _ domain.DriverUpdate) (domain.Driver, error) {
	if s.editErr != nil {
		return domain.Driver{}, s.editErr
	}

	return domain.Driver{ID: id}, nil
}

func (s *stubDriverService) DeleteDriver(_ context.Context, _ uint) error {
	return nil
}

func newDriverTestRouter(svc *stubDriverService, caller domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewDriverHandler(svc, newStubUserService(caller))

	router := gin.New()
	router.GET("/drivers", asUser(caller.ID), handler.HandleGetDrivers)
	router.GET("/drivers/:driverID", asUser(caller.ID), handler.HandleGetDriver)
	router.POST("/drivers", asUser(caller.ID), handler.HandleAddDriver)
	router.PUT("/drivers/:driverID", asUser(caller.ID), handler.HandleEditDriver)
	router.DELETE("/drivers/:driverID", asUser(caller.ID), handler.HandleDeleteDriver)

	return router
}

var (
	testAdmin = domain.User{ID: 1, Name: "Admin", Role: domain.RoleAdmin}
	testVoter = domain.User{ID: 2, Name: "Ana", Role: domain.RoleUser}
)

func TestHandleGetDrivers_SortParam(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantSort string
	}{
		{name: "default sorts by number", url: "/drivers", wantSort: "number"},
		{name: "ranking view sorts by votes", url: "/drivers?sort=votes", wantSort: "votes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubDriverService{drivers: []domain.Driver{{ID: 1}}}
			router := newDriverTestRouter(svc, testVoter)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.wantSort, svc.lastSort)
		})
	}
}

func TestHandleAddDriver(t *testing.T) {
	validBody := map[string]interface{}{
		"name":              "Piloto Uno",
		"competitor_number": 5,
		"plate":             "ABC-123",
	}

	tests := []struct {
		name       string
		caller     domain.User
		body       map[string]interface{}
		svc        *stubDriverService
		wantStatus int
	}{
		{
			name:       "admin can add",
			caller:     testAdmin,
			body:       validBody,
			svc:        &stubDriverService{},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "non-admin is rejected",
			caller:     testVoter,
			body:       validBody,
			svc:        &stubDriverService{},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing name is rejected",
			caller:     testAdmin,
			body:       map[string]interface{}{"competitor_number": 5, "plate": "ABC-123"},
			svc:        &stubDriverService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate number is a conflict",
			caller:     testAdmin,
			body:       validBody,
			svc:        &stubDriverService{addErr: service.ErrDriverNumberExists},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "duplicate plate is a conflict",
			caller:     testAdmin,
			body:       validBody,
			svc:        &stubDriverService{addErr: service.ErrDriverPlateExists},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newDriverTestRouter(tt.svc, tt.caller)

			payload, err := json.Marshal(tt.body)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/drivers", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestHandleGetDriver_NotFound(t *testing.T) {
	router := newDriverTestRouter(&stubDriverService{}, testVoter)

	req := httptest.NewRequest(http.MethodGet, "/drivers/99", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleEditDriver_NotFound(t *testing.T) {
	router := newDriverTestRouter(&stubDriverService{editErr: service.ErrDriverNotFound}, testAdmin)

	body := bytes.NewReader([]byte(`{"name":"Nuevo Nombre"}`))
	req := httptest.NewRequest(http.MethodPut, "/drivers/99", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleDeleteDriver_RequiresAdmin(t *testing.T) {
	router := newDriverTestRouter(&stubDriverService{}, testVoter)

	req := httptest.NewRequest(http.MethodDelete, "/drivers/1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestHandleDeleteDriver(t *testing.T) {
	router := newDriverTestRouter(&stubDriverService{}, testAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/drivers/1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"success":true,"message":"Piloto eliminado junto con sus votos."}`, recorder.Body.String())
}
