package routes

import (
	"net/http"

	"github.com/templui/loginapi/internal/app"
	"github.com/templui/loginapi/internal/handler"
	"github.com/templui/loginapi/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	health := handler.NewHealthHandler(app.UserRepository)
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.ProfileService)

	protected := middleware.RequireToken(app.TokenService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /readyz", health.Ready)

	// Auth
	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)

	// ============================================================================
	// PROTECTED ROUTES (bearer token)
	// ============================================================================

	mux.HandleFunc("GET /api/protected/profile", protected(profile.Get))
	mux.HandleFunc("PUT /api/protected/profile", protected(profile.Update))
	mux.HandleFunc("GET /api/protected/search", protected(profile.Search))
	mux.HandleFunc("GET /api/protected/data", protected(home.Data))

	// Catch-all
	mux.HandleFunc("/", home.NotFound)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recovery,
		middleware.RequestLogging,
		middleware.SecurityHeaders,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
	)
}
