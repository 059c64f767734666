package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-tempcred-api/internal/application/admin"
	"github.com/go-tempcred-api/internal/application/issuance"
	"github.com/go-tempcred-api/internal/application/provisioning"
	"github.com/go-tempcred-api/internal/application/validation"
	"github.com/go-tempcred-api/internal/config"
	jwtinfra "github.com/go-tempcred-api/internal/infrastructure/jwt"
	"github.com/go-tempcred-api/internal/pkg/secret"
	"github.com/go-tempcred-api/internal/transport/http/handler"
	appmiddleware "github.com/go-tempcred-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PrimaryRepo   PrimaryRepository
	SecondaryRepo SecondaryRepository
	Hasher        secret.Hasher
	Locker        issuance.Locker // nil falls back to an in-process lock
	JWTProvider   *jwtinfra.Provider
	Now           func() time.Time
}

// NewRouter builds the application router. It fails only when the admin
// password cannot be hashed.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	issuanceSvc := issuance.NewService(issuance.ServiceDeps{
		PrimaryRepo:   deps.PrimaryRepo,
		SecondaryRepo: deps.SecondaryRepo,
		Hasher:        deps.Hasher,
		Locker:        deps.Locker,
		Now:           deps.Now,
	})
	validationSvc := validation.NewService(validation.ServiceDeps{
		SecondaryRepo: deps.SecondaryRepo,
		Hasher:        deps.Hasher,
		Now:           deps.Now,
	})
	provisioningSvc := provisioning.NewService(provisioning.ServiceDeps{
		PrimaryRepo:   deps.PrimaryRepo,
		SecondaryRepo: deps.SecondaryRepo,
		Hasher:        deps.Hasher,
	})
	adminSvc, err := admin.NewService(admin.ServiceDeps{
		Username:    cfg.AdminUsername,
		Password:    cfg.AdminPassword,
		Hasher:      deps.Hasher,
		JWTProvider: deps.JWTProvider,
	})
	if err != nil {
		return nil, err
	}

	healthH := handler.NewHealthHandler()
	pageH := handler.NewPageHandler()
	tokenH := handler.NewTokenHandler(issuanceSvc)
	accessH := handler.NewAccessHandler(validationSvc)
	adminH := handler.NewAdminHandler(adminSvc, provisioningSvc, deps.JWTProvider.Expiry(), cfg.AppEnv == "production")

	// ── Public routes ────────────────────────────────────────────────────
	r.Get("/health-check/{action}", healthH.Ping)
	r.Get("/", pageH.Render(handler.PageIndex))
	r.Post("/generate-temp-token", tokenH.Generate)
	r.Get("/access-hospital", pageH.Render(handler.PageAccessHospital))
	r.Post("/access-hospital", accessH.Access)
	r.Get("/auth-admin", pageH.Render(handler.PageAuthAdmin))
	r.Post("/auth-admin", adminH.Login)

	// ── Admin routes ─────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))
		r.Use(appmiddleware.RequireRole(jwtinfra.RoleAdmin))

		r.Get("/add_user", pageH.Render(handler.PageAddUser))
		r.Post("/add_user", adminH.AddUser)
	})

	return r, nil
}
