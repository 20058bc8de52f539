package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	"notekeeper/internal/bootstrap"
	"notekeeper/internal/transport/http/handler"
	"notekeeper/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		middleware.RequestLogger(app.Logger, "/healthz", "/metrics"),
		middleware.Metrics(app.Metrics),
		middleware.Recovery(app.Logger),
		middleware.Session(app.Sessions, middleware.CookieOptions{
			Name:   app.Config.Session.CookieName,
			Secure: app.Config.Session.CookieSecure,
			MaxAge: app.Config.SessionTTL(),
		}),
	)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(app.Accounts, app.Metrics, app.Logger)
	noteHandler := handler.NewNoteHandler(app.Notes, app.Metrics, app.Logger)

	router.GET("/", handler.Index)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.GET("/check_session", authHandler.CheckSession)
	router.DELETE("/logout", authHandler.Logout)

	notes := router.Group("/notes")
	notes.Use(middleware.RequireAuth(app.Accounts, app.Logger))
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.PATCH("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	return router
}

// NewHandler is the router behind the CORS layer. Credentials are allowed so
// browsers send the session cookie cross-origin.
func NewHandler(app *bootstrap.App) nethttp.Handler {
	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   app.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{middleware.SessionTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return corsMiddleware(NewRouter(app))
}
