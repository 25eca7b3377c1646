// Package httpkit is the handler and routing surface modules mount against
// modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "memorial/internal/platform/net/http"
	"memorial/internal/platform/net/http/bind"
)

type (
	// Envelope is the JSON body every endpoint answers with
	Envelope = phttp.Envelope

	// Response is what return-style handlers hand back
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router

	// Stream is the server-sent events writer
	Stream = phttp.Stream
)

// OpenStream starts a server-sent events response
func OpenStream(w http.ResponseWriter) (*Stream, error) { return phttp.OpenStream(w) }

// WriteError writes err as an error envelope for handlers that own the response writer
func WriteError(w http.ResponseWriter, r *http.Request, err error) { phttp.RespondError(w, r, err) }

// Param returns a path parameter captured by the router
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post mounts a handler that reads its own body under POST
// multipart uploads go through here
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON mounts a handler whose JSON body is bound and validated into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(h))
}

// JSON binds and validates the body into T before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// Call adapts a handler that takes no JSON body
// a returned Response is written as is, anything else is wrapped as 200
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
