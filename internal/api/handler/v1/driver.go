package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/concursopilotos/contest-api/internal/api/handler/v1/request"
	"github.com/concursopilotos/contest-api/internal/api/handler/v1/response"
	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/service"
)

type DriverService interface {
	GetDrivers(ctx context.Context, sort string) ([]domain.Driver, error)
	GetDriver(ctx context.Context, id uint) (domain.Driver, error)
	AddDriver(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	EditDriver(ctx context.Context, id uint, update domain.DriverUpdate) (domain.Driver, error)
	DeleteDriver(ctx context.Context, id uint) error
}

type DriverHandler struct {
	svc  DriverService
	uSvc UserService
}

func NewDriverHandler(svc DriverService, uSvc UserService) *DriverHandler {
	return &DriverHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetDrivers godoc
// @Summary      List drivers
// @Description  Lists all drivers, sorted by competitor number or by vote count ("sort=votes" for the ranking view)
// @Tags         drivers
// @Produce      json
// @Param        sort  query  string  false  "Sort order: number (default) or votes"
// @Success      200  {array}   domain.Driver
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /drivers [get]
// @Security BearerAuth
func (h *DriverHandler) HandleGetDrivers(ctx *gin.Context) {
	sort := ctx.DefaultQuery("sort", "number")

	drivers, err := h.svc.GetDrivers(ctx.Request.Context(), sort)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDrivers -> h.svc.GetDrivers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, drivers)
}

// HandleGetDriver godoc
// @Summary      Get a driver
// @Description  Returns one driver's profile and current vote count
// @Tags         drivers
// @Produce      json
// @Param        driverID  path  int  true  "Driver ID"
// @Success      200  {object}  domain.Driver
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /drivers/{driverID} [get]
// @Security BearerAuth
func (h *DriverHandler) HandleGetDriver(ctx *gin.Context) {
	driverID, err := parseDriverID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	driver, err := h.svc.GetDriver(ctx.Request.Context(), driverID)
	if err != nil {
		if errors.Is(err, service.ErrDriverNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("driver", "ID", driverID))
			return
		}

		err = fmt.Errorf("v1.HandleGetDriver -> h.svc.GetDriver -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, driver)
}

// HandleAddDriver godoc
// @Summary      Add a driver
// @Description  Creates a driver. Admin only. Competitor number and plate must be unique.
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        input  body      request.AddDriverRequest  true  "Driver details"
// @Success      201    {object}  domain.Driver
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /drivers [post]
// @Security BearerAuth
func (h *DriverHandler) HandleAddDriver(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddDriverRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	driver, err := h.svc.AddDriver(ctx.Request.Context(), domain.Driver{
		Name:             req.Name,
		CompetitorNumber: req.CompetitorNumber,
		Plate:            req.Plate,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		if renderDriverConflict(ctx, err, req.CompetitorNumber, req.Plate) {
			return
		}

		err = fmt.Errorf("v1.HandleAddDriver -> h.svc.AddDriver -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, driver)
}

// HandleEditDriver godoc
// @Summary      Edit a driver
// @Description  Partially updates a driver's profile fields. Admin only. Never touches the vote count.
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        driverID  path   int  true  "Driver ID"
// @Param        input  body      request.EditDriverRequest  true  "Fields to update"
// @Success      200    {object}  domain.Driver
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /drivers/{driverID} [put]
// @Security BearerAuth
func (h *DriverHandler) HandleEditDriver(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	driverID, err := parseDriverID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.EditDriverRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	driver, err := h.svc.EditDriver(ctx.Request.Context(), driverID, domain.DriverUpdate{
		Name:             req.Name,
		CompetitorNumber: req.CompetitorNumber,
		Plate:            req.Plate,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrDriverNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("driver", "ID", driverID))
			return
		}

		number := 0
		if req.CompetitorNumber != nil {
			number = *req.CompetitorNumber
		}
		plate := ""
		if req.Plate != nil {
			plate = *req.Plate
		}
		if renderDriverConflict(ctx, err, number, plate) {
			return
		}

		err = fmt.Errorf("v1.HandleEditDriver -> h.svc.EditDriver -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, driver)
}

// HandleDeleteDriver godoc
// @Summary      Delete a driver
// @Description  Removes a driver and all of its recorded votes. Admin only.
// @Tags         drivers
// @Produce      json
// @Param        driverID  path   int  true  "Driver ID"
// @Success      200    {object}  response.Action
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /drivers/{driverID} [delete]
// @Security BearerAuth
func (h *DriverHandler) HandleDeleteDriver(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	driverID, err := parseDriverID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.DeleteDriver(ctx.Request.Context(), driverID); err != nil {
		if errors.Is(err, service.ErrDriverNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("driver", "ID", driverID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteDriver -> h.svc.DeleteDriver -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Action{
		Success: true,
		Message: "Piloto eliminado junto con sus votos.",
	})
}

func parseDriverID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("driverID"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid driver ID %q", ctx.Param("driverID"))
	}

	return uint(id), nil
}

// renderDriverConflict maps duplicate-constraint errors to a 409 naming
// the conflicting value. Returns false when the error is something else.
func renderDriverConflict(ctx *gin.Context, err error, number int, plate string) bool {
	switch {
	case errors.Is(err, service.ErrDriverNumberExists):
		response.RenderErr(ctx, response.ErrConflict(
			fmt.Errorf("ya existe un piloto con el número %d", number)))
		return true
	case errors.Is(err, service.ErrDriverPlateExists):
		response.RenderErr(ctx, response.ErrConflict(
			fmt.Errorf("ya existe un piloto con la placa %v", plate)))
		return true
	}

	return false
}
