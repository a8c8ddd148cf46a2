// Package router wires handler route registrars onto a gin engine
// under a versioned API prefix.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that know how to mount
// their own routes on a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type registration struct {
	registrar  RouteRegistrar
	middleware []gin.HandlerFunc
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     []registration
	protected  []registration
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix, "v1" by default
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
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterPublic mounts a registrar on the versioned API group without
// the authentication chain. Used for health probes.
func (r *Router) RegisterPublic(registrar RouteRegistrar, middleware ...gin.HandlerFunc) *Router {
	r.public = append(r.public, registration{registrar: registrar, middleware: middleware})
	return r
}

// Register mounts a registrar behind the authenticated group. Extra
// middleware, such as an admin guard, runs after authentication.
func (r *Router) Register(registrar RouteRegistrar, middleware ...gin.HandlerFunc) *Router {
	r.protected = append(r.protected, registration{registrar: registrar, middleware: middleware})
	return r
}

// Setup registers all routes with the engine. authMiddleware guards
// every protected registrar.
func (r *Router) Setup(authMiddleware ...gin.HandlerFunc) {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, reg := range r.public {
		group := api.Group("", reg.middleware...)
		reg.registrar.RegisterRoutes(group)
	}

	authed := api.Group("", authMiddleware...)
	for _, reg := range r.protected {
		group := authed.Group("", reg.middleware...)
		reg.registrar.RegisterRoutes(group)
	}
}
