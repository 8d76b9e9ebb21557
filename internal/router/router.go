package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/assignment-organizer/api/swagger"
	"github.com/noah-isme/assignment-organizer/internal/app"
	"github.com/noah-isme/assignment-organizer/internal/handler"
	"github.com/noah-isme/assignment-organizer/internal/middleware"
	"github.com/noah-isme/assignment-organizer/pkg/config"
	"github.com/noah-isme/assignment-organizer/pkg/logger"
	corsmiddleware "github.com/noah-isme/assignment-organizer/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/assignment-organizer/pkg/middleware/requestid"
)

// New builds the HTTP engine for the API process.
func New(svc *app.Services) *gin.Engine {
	cfg := svc.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(svc.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svc.Metrics))

	metrics := handler.NewMetricsHandler(svc.Metrics, svc.ReadinessChecks()...)
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
	r.GET("/metrics", metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	students := handler.NewStudentHandler(svc.Students)
	events := handler.NewEventHandler(svc.Events, svc.Feed, svc.Validator)
	todo := handler.NewTodoHandler(svc.Todo)
	assignments := handler.NewAssignmentHandler(svc.Assignments)
	classes := handler.NewClassHandler(svc.Classes)

	loadStudent := middleware.CurrentStudent(svc.Students)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.GET("/events/feed.ics", middleware.FeedJWT(svc.Identity), loadStudent, events.Feed)

	secured := api.Group("")
	secured.Use(middleware.JWT(svc.Identity), loadStudent)
	{
		secured.GET("/me", students.Me)
		secured.GET("/colors", students.Color)
		secured.GET("/colors/:name", students.Color)
		secured.PUT("/colors", students.SetColor)
		secured.PUT("/colors/:name", students.SetColor)

		secured.GET("/events", events.List)
		secured.GET("/events/upcoming", events.Upcoming)

		secured.GET("/todo", todo.List)

		secured.POST("/assignments", assignments.Create)
		secured.POST("/assignments/:class/:eventId/toggle", assignments.Toggle)

		secured.GET("/classes", classes.Directory)
		secured.POST("/classes", middleware.RequireProfessor(), classes.Create)
		secured.POST("/classes/:name/enroll", classes.Enroll)
		secured.DELETE("/classes/:name/enroll", classes.Unenroll)
		secured.GET("/classes/:name/roster", middleware.RequireProfessor(), classes.Roster)
		secured.POST("/classes/:name/syllabus", middleware.RequireProfessor(), assignments.ImportSyllabus)
	}

	return r
}
