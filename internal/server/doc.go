// Package server provides HTTP routing, middleware, and the read-only status endpoints served next to
// the prometheus metrics.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Status Handler
//
// [StatusHandler] reports the session's adapter state and a property snapshot as JSON on /status, and
// answers /healthz with 200 while the adapter is connected and 503 otherwise.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
