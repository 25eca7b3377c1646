package http

import "net/http"

// Handler is the plain handler func every route registers
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the routing surface modules mount against
// the api only reads and appends, so GET and POST are the only verbs
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}
