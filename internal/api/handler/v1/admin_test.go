package v1

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concursopilotos/contest-api/internal/domain"
)

type stubAdminService struct {
	driverResets int
	quotaResets  int
	events       []domain.VoteEvent
	lastLimit    int
	lastOffset   int
}

func (s *stubAdminService) ResetAllDriverVotes(_ context.Context) (int, error) {
	return s.driverResets, nil
}

func (s *stubAdminService) ResetAllUserQuotas(_ context.Context) (int, error) {
	return s.quotaResets, nil
}

func (s *stubAdminService) GetAllVotes(_ context.Context, limit, offset int) ([]domain.VoteEvent, error) {
	s.lastLimit = limit
	s.lastOffset = offset

	return s.events, nil
}

func (s *stubAdminService) GetUsers(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *stubAdminService) GetTopDrivers(_ context.Context, _ int) ([]domain.Driver, error) {
	return []domain.Driver{{ID: 1, VoteCount: 9}}, nil
}

func (s *stubAdminService) GetRecentUsers(_ context.Context, _ int) ([]domain.User, error) {
	return nil, nil
}

func (s *stubAdminService) GetContestStats(_ context.Context) (domain.ContestStats, error) {
	return domain.ContestStats{TotalUsers: 3, TotalDrivers: 2, TotalVotes: 9}, nil
}

type stubContestService struct {
	conf domain.ContestConfig
}

func (s *stubContestService) GetConfig(_ context.Context) (domain.ContestConfig, error) {
	return s.conf, nil
}

func (s *stubContestService) SetActive(_ context.Context, active bool) (domain.ContestConfig, error) {
	s.conf.IsActive = active

	return s.conf, nil
}

func newAdminTestRouter(svc *stubAdminService, contest *stubContestService, caller domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewAdminHandler(svc, contest, newStubUserService(caller))

	router := gin.New()
	router.GET("/contest", asUser(caller.ID), handler.HandleGetContest)
	router.PUT("/admin/contest/active", asUser(caller.ID), handler.HandleSetContestActive)
	router.POST("/admin/reset/votes", asUser(caller.ID), handler.HandleResetDriverVotes)
	router.POST("/admin/reset/quotas", asUser(caller.ID), handler.HandleResetUserQuotas)
	router.GET("/admin/votes", asUser(caller.ID), handler.HandleGetAllVotes)
	router.GET("/admin/dashboard", asUser(caller.ID), handler.HandleGetDashboard)

	return router
}

func TestHandleGetContest_VisibleToAnyUser(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{}, &stubContestService{conf: domain.ContestConfig{IsActive: true}}, testVoter)

	req := httptest.NewRequest(http.MethodGet, "/contest", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"is_active":true`)
}

func TestHandleSetContestActive(t *testing.T) {
	tests := []struct {
		name       string
		caller     domain.User
		body       string
		wantStatus int
	}{
		{name: "admin pauses the contest", caller: testAdmin, body: `{"is_active":false}`, wantStatus: http.StatusOK},
		{name: "non-admin is rejected", caller: testVoter, body: `{"is_active":false}`, wantStatus: http.StatusForbidden},
		{name: "missing flag is rejected", caller: testAdmin, body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contest := &stubContestService{conf: domain.ContestConfig{IsActive: true}}
			router := newAdminTestRouter(&stubAdminService{}, contest, tt.caller)

			req := httptest.NewRequest(http.MethodPut, "/admin/contest/active", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			require.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.False(t, contest.conf.IsActive)
			}
		})
	}
}

func TestHandleResetDriverVotes(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{driverResets: 4}, &stubContestService{}, testAdmin)

	req := httptest.NewRequest(http.MethodPost, "/admin/reset/votes", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"success":true,"message":"Se reiniciaron los votos de 4 pilotos.","count":4}`, recorder.Body.String())
}

func TestHandleResetUserQuotas(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{quotaResets: 12}, &stubContestService{}, testAdmin)

	req := httptest.NewRequest(http.MethodPost, "/admin/reset/quotas", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"success":true,"message":"Se reiniciaron los votos disponibles de 12 usuarios.","count":12}`, recorder.Body.String())
}

func TestHandleResetDriverVotes_RequiresAdmin(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{}, &stubContestService{}, testVoter)

	req := httptest.NewRequest(http.MethodPost, "/admin/reset/votes", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestHandleGetAllVotes_Pagination(t *testing.T) {
	svc := &stubAdminService{}
	router := newAdminTestRouter(svc, &stubContestService{}, testAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin/votes?limit=1000&offset=20", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	// The limit is clamped to the page-size ceiling.
	assert.Equal(t, maxVotesPageSize, svc.lastLimit)
	assert.Equal(t, 20, svc.lastOffset)
}

func TestHandleGetDashboard(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{}, &stubContestService{}, testAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total_votes":9`)
	assert.Contains(t, recorder.Body.String(), `"top_drivers"`)
}
