package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/identity/drivers/local"
	"github.com/aussiebroadwan/lunch/internal/admin/service"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/aussiebroadwan/lunch/pkg/httpx"
	"github.com/aussiebroadwan/lunch/pkg/jwtx"
	"github.com/aussiebroadwan/lunch/pkg/slogx"

	_ "github.com/aussiebroadwan/lunch/api/admin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// PasswordSignIn is implemented by identity backends that can issue ID
// tokens themselves (drivers/local).
type PasswordSignIn interface {
	SignIn(ctx context.Context, email, password string) (local.SignInResult, error)
	JWKS() jwtx.JWKS
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	backend      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	identity identity.Provider

	AdminService     *service.AdminService
	ApprovalService  *service.ApprovalService
	BootstrapService *service.BootstrapService
	ReconcileService *service.ReconcileService
	SignIn           PasswordSignIn // Optional: only with the local identity backend
}

func NewRouter(
	backend, buildVersion string,
	st store.Store,
	idp identity.Provider,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		backend:      backend,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		identity:     idp,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthnMiddleware(VerifyWith(idp)),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCallables()
	r.registerBootstrap()
	r.registerSignIn()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Lunch Manager Admin API
//	@version		0.1.0
//	@description	Privileged user administration for Lunch Manager. Operations follow the callable
//	@description	convention: POST {"data": ...}, answered with {"result": ...} or {"error": ...}.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/lunch
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity provider ID token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCallables() {
	callables := map[string]http.Handler{
		"createUser":     Callable(r.AdminService.CreateUser),
		"deleteUser":     Callable(r.AdminService.DeleteUser),
		"listApprovals":  Callable(r.ApprovalService.ListApprovals),
		"reviewApproval": Callable(r.ApprovalService.ReviewApproval),
		"reconcile":      Callable(r.ReconcileService.Reconcile),
	}

	// Per caller, so one admin cannot starve the others.
	for name, h := range callables {
		r.Mux.Handle("POST /v1/callable/"+name,
			httpx.Chain(h, httpx.RateLimitByCaller(httpx.CallableLimit)),
		)
	}
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h, httpx.RateLimitByIP(httpx.StrictLimit)),
	)
}

func (r *Router) registerSignIn() {
	if r.SignIn == nil {
		return
	}
	h := &SignInHandler{Provider: r.SignIn}
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(h, httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.SignIn), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.backend, r.store, r.identity),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

// VerifyWith adapts an identity provider to the bearer token middleware.
func VerifyWith(idp identity.Provider) httpx.IdentityVerifier {
	return func(ctx context.Context, token string) (httpx.Identity, error) {
		c, err := idp.VerifyToken(ctx, token)
		if err != nil {
			return httpx.Identity{}, err
		}
		return httpx.Identity{UID: c.UID, Email: c.Email}, nil
	}
}

// callerFrom returns nil for anonymous requests.
func callerFrom(ctx context.Context) *domain.Caller {
	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		return nil
	}
	return &domain.Caller{UID: id.UID, Email: id.Email}
}
