package http

import (
	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/bootstrap"
	"gopherai-tutor/internal/transport/http/handler"
	"gopherai-tutor/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Log), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	sessionHandler := handler.NewSessionHandler(app.Sessions, app.Config.Auth.SessionTokenSecret, app.Config.SessionTokenTTL())
	subjectHandler := handler.NewSubjectHandler(app.Sessions)
	referenceHandler := handler.NewReferenceHandler(app.Sessions, app.Config.Tutor.MaxUploadBytes)
	tutorHandler := handler.NewTutorHandler(app.Sessions)

	v1 := router.Group("/api/v1")
	v1.POST("/sessions", sessionHandler.Create)

	sessionGroup := v1.Group("/sessions/:id")
	sessionGroup.Use(middleware.SessionToken(app.Config.Auth.SessionTokenSecret))
	sessionGroup.GET("", sessionHandler.Get)
	sessionGroup.DELETE("", sessionHandler.Delete)

	sessionGroup.GET("/subjects", subjectHandler.List)
	sessionGroup.POST("/subjects", subjectHandler.Create)
	sessionGroup.DELETE("/subjects/:name", subjectHandler.Delete)
	sessionGroup.PUT("/subject", subjectHandler.Select)

	sessionGroup.POST("/references", referenceHandler.Upload)
	sessionGroup.GET("/references", referenceHandler.List)
	sessionGroup.DELETE("/references/:name", referenceHandler.Delete)
	sessionGroup.DELETE("/references", referenceHandler.Clear)

	sessionGroup.POST("/ask", tutorHandler.Ask)
	sessionGroup.GET("/history", tutorHandler.History)
	sessionGroup.DELETE("/history", tutorHandler.ClearHistory)
	sessionGroup.GET("/stats", tutorHandler.Stats)
	sessionGroup.GET("/export", tutorHandler.Export)

	return router
}
