package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/concursopilotos/contest-api/internal/api/handler/v1/request"
	"github.com/concursopilotos/contest-api/internal/api/handler/v1/response"
	"github.com/concursopilotos/contest-api/internal/domain"
)

const (
	defaultVotesPageSize = 50
	maxVotesPageSize     = 200
	dashboardTopDrivers  = 5
	dashboardRecentUsers = 5
)

type AdminService interface {
	ResetAllDriverVotes(ctx context.Context) (int, error)
	ResetAllUserQuotas(ctx context.Context) (int, error)
	GetAllVotes(ctx context.Context, limit, offset int) ([]domain.VoteEvent, error)
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetTopDrivers(ctx context.Context, limit int) ([]domain.Driver, error)
	GetRecentUsers(ctx context.Context, limit int) ([]domain.User, error)
	GetContestStats(ctx context.Context) (domain.ContestStats, error)
}

type ContestService interface {
	GetConfig(ctx context.Context) (domain.ContestConfig, error)
	SetActive(ctx context.Context, active bool) (domain.ContestConfig, error)
}

type AdminHandler struct {
	svc     AdminService
	contest ContestService
	uSvc    UserService
}

func NewAdminHandler(svc AdminService, contest ContestService, uSvc UserService) *AdminHandler {
	return &AdminHandler{
		svc:     svc,
		contest: contest,
		uSvc:    uSvc,
	}
}

// HandleGetContest godoc
// @Summary      Get contest state
// @Description  Returns the global contest configuration, including whether voting is open
// @Tags         contest
// @Produce      json
// @Success      200  {object}  domain.ContestConfig
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /contest [get]
// @Security BearerAuth
func (h *AdminHandler) HandleGetContest(ctx *gin.Context) {
	conf, err := h.contest.GetConfig(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetContest -> h.contest.GetConfig -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

// HandleSetContestActive godoc
// @Summary      Pause or resume the contest
// @Description  Flips the global voting gate. Admin only. Takes effect for every subsequent vote attempt.
// @Tags         contest
// @Accept       json
// @Produce      json
// @Param        input  body      request.SetContestActiveRequest  true  "Desired state"
// @Success      200    {object}  domain.ContestConfig
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/contest/active [put]
// @Security BearerAuth
func (h *AdminHandler) HandleSetContestActive(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SetContestActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.contest.SetActive(ctx.Request.Context(), *req.IsActive)
	if err != nil {
		err = fmt.Errorf("v1.HandleSetContestActive -> h.contest.SetActive -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

// HandleResetDriverVotes godoc
// @Summary      Reset all driver votes
// @Description  Zeroes every driver's vote count and deletes all recorded votes. Admin only. Irreversible.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.ResetResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/reset/votes [post]
// @Security BearerAuth
func (h *AdminHandler) HandleResetDriverVotes(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	count, err := h.svc.ResetAllDriverVotes(ctx.Request.Context())
	if err != nil {
		// Partial progress is real progress; report it instead of a bare 500.
		err = fmt.Errorf("v1.HandleResetDriverVotes -> h.svc.ResetAllDriverVotes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ResetResponse{
		Success: true,
		Message: fmt.Sprintf("Se reiniciaron los votos de %d pilotos.", count),
		Count:   count,
	})
}

// HandleResetUserQuotas godoc
// @Summary      Reset all user quotas
// @Description  Sets every user's used-vote counter back to zero so everyone can vote again. Admin only.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.ResetResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/reset/quotas [post]
// @Security BearerAuth
func (h *AdminHandler) HandleResetUserQuotas(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	count, err := h.svc.ResetAllUserQuotas(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleResetUserQuotas -> h.svc.ResetAllUserQuotas -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ResetResponse{
		Success: true,
		Message: fmt.Sprintf("Se reiniciaron los votos disponibles de %d usuarios.", count),
		Count:   count,
	})
}

// HandleGetAllVotes godoc
// @Summary      List all votes
// @Description  Returns the raw vote ledger, newest first, paginated. Admin only.
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "Page size (default 50, max 200)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}   domain.VoteEvent
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/votes [get]
// @Security BearerAuth
func (h *AdminHandler) HandleGetAllVotes(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit := parsePositiveQuery(ctx, "limit", defaultVotesPageSize)
	if limit > maxVotesPageSize {
		limit = maxVotesPageSize
	}
	offset := parsePositiveQuery(ctx, "offset", 0)

	votes, err := h.svc.GetAllVotes(ctx.Request.Context(), limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAllVotes -> h.svc.GetAllVotes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, votes)
}

// HandleGetUsers godoc
// @Summary      List users
// @Description  Returns every registered user. Admin only.
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users [get]
// @Security BearerAuth
func (h *AdminHandler) HandleGetUsers(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	users, err := h.svc.GetUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUsers -> h.svc.GetUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetDashboard godoc
// @Summary      Get dashboard stats
// @Description  Returns contest totals plus the current top drivers and most recent signups. Admin only.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.DashboardResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/dashboard [get]
// @Security BearerAuth
func (h *AdminHandler) HandleGetDashboard(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.GetContestStats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDashboard -> h.svc.GetContestStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	topDrivers, err := h.svc.GetTopDrivers(ctx.Request.Context(), dashboardTopDrivers)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDashboard -> h.svc.GetTopDrivers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	recentUsers, err := h.svc.GetRecentUsers(ctx.Request.Context(), dashboardRecentUsers)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDashboard -> h.svc.GetRecentUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.DashboardResponse{
		Stats:       stats,
		TopDrivers:  topDrivers,
		RecentUsers: recentUsers,
	})
}

func parsePositiveQuery(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}

	return v
}
