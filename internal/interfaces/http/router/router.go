package router

import (
	"github.com/gin-gonic/gin"
)

// Groups are the route groups handlers register against. Public routes
// need no token, Authenticated routes run behind the JWT middleware, and
// Admin routes additionally require the admin role.
type Groups struct {
	Public        *gin.RouterGroup
	Authenticated *gin.RouterGroup
	Admin         *gin.RouterGroup
}

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(g Groups)
}

// Router manages HTTP route registration
type Router struct {
	engine         *gin.Engine
	apiVersion     string
	authMiddleware []gin.HandlerFunc
	adminOnly      []gin.HandlerFunc
	registrars     []RouteRegistrar
}

// Option is a functional option for Router configuration
type Option func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthMiddleware sets the middleware guarding authenticated routes
func WithAuthMiddleware(mw ...gin.HandlerFunc) Option {
	return func(r *Router) {
		r.authMiddleware = mw
	}
}

// WithAdminMiddleware sets the middleware guarding admin routes,
// applied on top of the authentication middleware
func WithAdminMiddleware(mw ...gin.HandlerFunc) Option {
	return func(r *Router) {
		r.adminOnly = mw
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup builds the versioned route groups and registers all routes
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	authed := api.Group("")
	authed.Use(r.authMiddleware...)

	admin := authed.Group("/admin")
	admin.Use(r.adminOnly...)

	groups := Groups{
		Public:        api,
		Authenticated: authed,
		Admin:         admin,
	}

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(groups)
	}
}
