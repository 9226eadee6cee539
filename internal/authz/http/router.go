package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/pkg/httpx"
	"github.com/classhubhq/classhub/pkg/jwtx"
	"github.com/classhubhq/classhub/pkg/slogx"

	_ "github.com/classhubhq/classhub/api/authz" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	DirectoryService *service.DirectoryService
	TenantService    *service.TenantService
	RoleService      *service.RoleService
	MemberService    *service.MemberService
	InviteService    *service.InviteService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTenants()
	r.registerRoles()
	r.registerMembers()
	r.registerInvites()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			ClassHub Authorization Service API
//	@version		0.1.0
//	@description	Multi-tenant role, permission and invitation management for the ClassHub school platform.
//	@description
//	@description	Authentication is delegated to the platform identity service: every request carries a
//	@description	session JWT whose subject, email and display name identify the caller.
//
//	@contact.name				ClassHub Platform Team
//	@contact.url				https://github.com/classhubhq/classhub
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with session verification, directory sync and a per-user
// rate limit. Anonymous requests still reach h; the service layer answers
// them with 401 so unauthenticated probing looks the same everywhere.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		r.syncDirectory,
		httpx.RateLimitByUser(limit),
	)
}

// syncDirectory mirrors the verified session claims into the local user
// directory so email matching and display-name joins work.
func (r *Router) syncDirectory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if identity, ok := httpx.IdentityFromContext(req.Context()); ok {
			err := r.DirectoryService.SyncIdentity(req.Context(), identity.UserID, identity.Email, identity.DisplayName)
			if err != nil {
				writeServiceError(w, req, err)
				return
			}
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Router) registerTenants() {
	h := &TenantsHandler{TenantService: r.TenantService}

	r.Mux.Handle("POST /v1/tenants", r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/tenants", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/tenants/{tenantID}", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/tenants/{tenantID}", r.secured(http.HandlerFunc(h.HandleDelete), httpx.StrictLimit))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RoleService: r.RoleService}

	r.Mux.Handle("POST /v1/tenants/{tenantID}/roles", r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/tenants/{tenantID}/roles", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/tenants/{tenantID}/roles/{roleID}", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/tenants/{tenantID}/roles/{roleID}/permissions", r.secured(http.HandlerFunc(h.HandleUpdatePermissions), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/tenants/{tenantID}/roles/{roleID}", r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerMembers() {
	h := &MembersHandler{MemberService: r.MemberService}

	r.Mux.Handle("GET /v1/tenants/{tenantID}/members", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/tenants/{tenantID}/members/{memberID}", r.secured(http.HandlerFunc(h.HandleChangeRole), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/tenants/{tenantID}/members/{memberID}", r.secured(http.HandlerFunc(h.HandleRemove), httpx.ModerateLimit))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	// Invitation creation triggers outbound mail, so it gets the strict
	// profile.
	r.Mux.Handle("POST /v1/tenants/{tenantID}/invitations", r.secured(http.HandlerFunc(h.HandleCreate), httpx.StrictLimit))
	r.Mux.Handle("GET /v1/tenants/{tenantID}/invitations", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/tenants/{tenantID}/invitations/{invitationID}", r.secured(http.HandlerFunc(h.HandleCancel), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/invitations/{invitationID}/accept", r.secured(http.HandlerFunc(h.HandleAccept), httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
