package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration. API registrars mount under the
// versioned /api prefix; webhook registrars mount under /webhooks, outside
// the versioned surface, because the storefront delivery URL must stay
// stable across API versions.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	webhooks   []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
		webhooks:   make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar under the versioned API group
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// RegisterWebhook adds a RouteRegistrar under the /webhooks group
func (r *Router) RegisterWebhook(registrar RouteRegistrar) *Router {
	r.webhooks = append(r.webhooks, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	hooks := r.engine.Group("/webhooks")
	for _, registrar := range r.webhooks {
		registrar.RegisterRoutes(hooks)
	}
}
