package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/concursopilotos/contest-api/internal/api/middleware"
	"github.com/concursopilotos/contest-api/internal/api/handler/v1/response"
	"github.com/concursopilotos/contest-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

var errNotAuthenticated = errors.New("user is not authenticated")

// getUserFromContext resolves the authenticated user set by the JWT
// middleware into a full profile.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized(fmt.Errorf("getUserFromContext -> %w", err))
	}

	return user, nil
}

// requireAdmin resolves the authenticated user and rejects non-admins.
func requireAdmin(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, svc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if !user.IsAdmin() {
		return domain.User{}, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID))
	}

	return user, nil
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
