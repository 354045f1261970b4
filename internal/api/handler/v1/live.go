package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/concursopilotos/contest-api/internal/api/handler/v1/response"
	"github.com/concursopilotos/contest-api/internal/livesync"
)

var errUnknownTopics = errors.New("no recognized topics requested")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type LiveHandler struct {
	broker livesync.Broker
	hub    *livesync.Hub
	uSvc   UserService
}

func NewLiveHandler(broker livesync.Broker, hub *livesync.Hub, uSvc UserService) *LiveHandler {
	return &LiveHandler{
		broker: broker,
		hub:    hub,
		uSvc:   uSvc,
	}
}

// HandleLive godoc
// @Summary      Subscribe to live updates
// @Description  Upgrades to a WebSocket that pushes ranking, contest and quota snapshots as they change. The "quota" topic is always scoped to the authenticated user.
// @Tags         live
// @Produce      json
// @Param        topics  query  string  false  "Comma-separated topics: drivers, contest, quota (default: all)"
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /live [get]
// @Security BearerAuth
func (h *LiveHandler) HandleLive(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	topics := resolveTopics(ctx.Query("topics"), user.ID)
	if len(topics) == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errUnknownTopics))
		return
	}

	sub, err := h.broker.Subscribe(ctx.Request.Context(), topics...)
	if err != nil {
		zap.L().Error("failed to subscribe to live updates", zap.Error(err))
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		sub.Close()
		return
	}

	h.hub.Serve(conn, sub)
}

// resolveTopics maps the viewer-facing topic names to broker topics.
// "quota" always resolves to the caller's own counter; subscribing to
// someone else's quota is not a thing.
func resolveTopics(raw string, userID uint) []string {
	if raw == "" {
		return []string{livesync.TopicDrivers, livesync.TopicContest, livesync.QuotaTopic(userID)}
	}

	var topics []string
	for _, name := range strings.Split(raw, ",") {
		switch strings.TrimSpace(name) {
		case "drivers":
			topics = append(topics, livesync.TopicDrivers)
		case "contest":
			topics = append(topics, livesync.TopicContest)
		case "quota":
			topics = append(topics, livesync.QuotaTopic(userID))
		}
	}

	return topics
}
