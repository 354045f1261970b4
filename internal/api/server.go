package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/concursopilotos/contest-api/docs"
	v1 "github.com/concursopilotos/contest-api/internal/api/handler/v1"
	"github.com/concursopilotos/contest-api/internal/api/middleware"
	"github.com/concursopilotos/contest-api/internal/config"
	"github.com/concursopilotos/contest-api/internal/livesync"
	"github.com/concursopilotos/contest-api/internal/repository"
	"github.com/concursopilotos/contest-api/internal/repository/dao"
	"github.com/concursopilotos/contest-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, rdb *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	broker := livesync.NewRedisBroker(rdb)
	hub := livesync.NewHub()
	go hub.Run()

	driverRepo := repository.NewDriverRepository(dao.NewDriverDAO(db))
	voteRepo := repository.NewVoteRepository(dao.NewVoteEventDAO(db))
	quotaRepo := repository.NewQuotaRepository(dao.NewQuotaDAO(rdb))
	contestRepo := repository.NewContestRepository(dao.NewContestConfigDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	maintenanceRepo := repository.NewMaintenanceRepository(dao.NewMaintenanceDAO(db))

	publisher := service.NewLivePublisher(broker, driverRepo)

	uSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)
	driverSvc := service.NewDriverService(driverRepo, publisher)
	voteSvc := service.NewVoteService(driverRepo, voteRepo, quotaRepo, contestRepo, publisher, conf.Contest.MaxVotes)
	contestSvc := service.NewContestService(contestRepo, publisher)
	adminSvc := service.NewAdminService(maintenanceRepo, quotaRepo, voteRepo, driverRepo, userRepo, publisher)

	authHandler := v1.NewAuthHandler(s.Config.API, authSvc)
	userHandler := v1.NewUserHandler(uSvc)
	driverHandler := v1.NewDriverHandler(driverSvc, uSvc)
	voteHandler := v1.NewVoteHandler(voteSvc, uSvc)
	adminHandler := v1.NewAdminHandler(adminSvc, contestSvc, uSvc)
	liveHandler := v1.NewLiveHandler(broker, hub, uSvc)

	s.MountHandlers(authHandler, userHandler, driverHandler, voteHandler, adminHandler, liveHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	driverHandler *v1.DriverHandler,
	voteHandler *v1.VoteHandler,
	adminHandler *v1.AdminHandler,
	liveHandler *v1.LiveHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.GET("/drivers", driverHandler.HandleGetDrivers)
		authed.GET("/drivers/:driverID", driverHandler.HandleGetDriver)
		authed.POST("/drivers", driverHandler.HandleAddDriver)
		authed.PUT("/drivers/:driverID", driverHandler.HandleEditDriver)
		authed.DELETE("/drivers/:driverID", driverHandler.HandleDeleteDriver)

		authed.POST("/drivers/:driverID/votes", voteHandler.HandleCastVote)
		authed.GET("/drivers/:driverID/votes", voteHandler.HandleGetDriverVotes)
		authed.GET("/drivers/:driverID/voters", voteHandler.HandleGetDriverVoters)
		authed.GET("/votes/quota", voteHandler.HandleGetQuota)

		authed.GET("/contest", adminHandler.HandleGetContest)
		authed.PUT("/admin/contest/active", adminHandler.HandleSetContestActive)
		authed.POST("/admin/reset/votes", adminHandler.HandleResetDriverVotes)
		authed.POST("/admin/reset/quotas", adminHandler.HandleResetUserQuotas)
		authed.GET("/admin/votes", adminHandler.HandleGetAllVotes)
		authed.GET("/admin/users", adminHandler.HandleGetUsers)
		authed.GET("/admin/dashboard", adminHandler.HandleGetDashboard)

		authed.GET("/live", liveHandler.HandleLive)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Contest Voting API"
	docs.SwaggerInfo.Description = "API for the driver contest voting app."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
