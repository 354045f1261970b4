package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/concursopilotos/contest-api/internal/api/handler/v1/response"
	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/service"
)

type VoteService interface {
	MaxVotes() int
	CastVote(ctx context.Context, driverID uint, user domain.User) (domain.VoteReceipt, error)
	GetVotesUsed(ctx context.Context, userID uint) (domain.VoteQuota, error)
	GetDriverVotes(ctx context.Context, driverID uint) ([]domain.VoteEvent, error)
	GetDriverVoters(ctx context.Context, driverID uint) ([]domain.VoterSummary, error)
}

type VoteHandler struct {
	svc  VoteService
	uSvc UserService
}

func NewVoteHandler(svc VoteService, uSvc UserService) *VoteHandler {
	return &VoteHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCastVote godoc
// @Summary      Cast a vote
// @Description  Records one vote from the authenticated user for a driver. Rejected when the contest is paused or the user's quota is spent.
// @Tags         votes
// @Produce      json
// @Param        driverID  path  int  true  "Driver ID"
// @Success      200  {object}  response.CastVoteResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /drivers/{driverID}/votes [post]
// @Security BearerAuth
func (h *VoteHandler) HandleCastVote(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	driverID, err := parseDriverID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	receipt, err := h.svc.CastVote(ctx.Request.Context(), driverID, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContestPaused):
			ctx.JSON(http.StatusOK, response.CastVoteResponse{
				Success: false,
				Message: "El concurso está pausado. No se pueden registrar votos por ahora.",
			})
		case errors.Is(err, service.ErrQuotaExceeded):
			ctx.JSON(http.StatusOK, response.CastVoteResponse{
				Success: false,
				Message: fmt.Sprintf("Ya usaste tus %d votos disponibles.", h.svc.MaxVotes()),
			})
		case errors.Is(err, service.ErrDriverNotFound):
			response.RenderErr(ctx, response.ErrNotFound("driver", "ID", driverID))
		case errors.Is(err, service.ErrVoteIncomplete):
			// Some writes landed; retrying is safe for the voter.
			ctx.JSON(http.StatusOK, response.CastVoteResponse{
				Success: false,
				Message: "No se pudo completar el voto. Intenta de nuevo.",
			})
		default:
			err = fmt.Errorf("v1.HandleCastVote -> h.svc.CastVote -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.CastVoteResponse{
		Success:   true,
		Message:   fmt.Sprintf("¡Voto registrado! Te quedan %d votos.", receipt.VotesLeft),
		VotesUsed: receipt.VotesUsed,
		VotesLeft: receipt.VotesLeft,
	})
}

// HandleGetQuota godoc
// @Summary      Get my vote quota
// @Description  Returns how many votes the authenticated user has used and has left
// @Tags         votes
// @Produce      json
// @Success      200  {object}  response.QuotaResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /votes/quota [get]
// @Security BearerAuth
func (h *VoteHandler) HandleGetQuota(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	quota, err := h.svc.GetVotesUsed(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetQuota -> h.svc.GetVotesUsed -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	maxVotes := h.svc.MaxVotes()
	left := maxVotes - quota.VotesUsed
	if left < 0 {
		left = 0
	}

	ctx.JSON(http.StatusOK, response.QuotaResponse{
		UserID:    quota.UserID,
		VotesUsed: quota.VotesUsed,
		VotesLeft: left,
		MaxVotes:  maxVotes,
	})
}

// HandleGetDriverVotes godoc
// @Summary      List a driver's votes
// @Description  Returns every recorded vote for a driver, newest first
// @Tags         votes
// @Produce      json
// @Param        driverID  path  int  true  "Driver ID"
// @Success      200  {array}   domain.VoteEvent
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /drivers/{driverID}/votes [get]
// @Security BearerAuth
func (h *VoteHandler) HandleGetDriverVotes(ctx *gin.Context) {
	driverID, err := parseDriverID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	events, err := h.svc.GetDriverVotes(ctx.Request.Context(), driverID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDriverVotes -> h.svc.GetDriverVotes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetDriverVoters godoc
// @Summary      Summarize a driver's voters
// @Description  Returns each voter who voted for the driver with their vote count
// @Tags         votes
// @Produce      json
// @Param        driverID  path  int  true  "Driver ID"
// @Success      200  {array}   domain.VoterSummary
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /drivers/{driverID}/voters [get]
// @Security BearerAuth
func (h *VoteHandler) HandleGetDriverVoters(ctx *gin.Context) {
	driverID, err := parseDriverID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	voters, err := h.svc.GetDriverVoters(ctx.Request.Context(), driverID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDriverVoters -> h.svc.GetDriverVoters -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, voters)
}
