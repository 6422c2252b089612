package router

import (
	"net/http"

	"github.com/ferdiebergado/goexpress"
)

type goexpressRouter struct {
	handler *goexpress.Router
}

var _ Router = (*goexpressRouter)(nil)

// NewGoexpressRouter returns a Router backed by goexpress and the standard
// ServeMux, so path wildcards are read with r.PathValue.
//
//nolint:ireturn //Callers depend on the Router interface.
func NewGoexpressRouter() Router {
	return &goexpressRouter{handler: goexpress.New()}
}

func (r *goexpressRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *goexpressRouter) Use(middleware Middleware) {
	r.handler.Use(middleware)
}

func (r *goexpressRouter) Get(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.handler.Get(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Post(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.handler.Post(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Patch(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.handler.Patch(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Options(pattern string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.handler.Options(pattern, handler, middlewares...)
}

// Group registers routes under prefix. The group shares the parent mux and
// inherits its middlewares.
func (r *goexpressRouter) Group(prefix string, fn func(r Router), middlewares ...Middleware) {
	group := goexpress.New()
	group.SetPrefix(prefix)
	group.SetMux(r.handler.Mux())
	group.SetMiddlewares(append(r.handler.Middlewares(), middlewares...))

	fn(&goexpressRouter{handler: group})
}
