// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting every route.
//   - rayid: a request id (RayID) for every request, stored in the context locals
//     and echoed in the X-Ray-ID response header for tracing.
//
// RayID must be registered first so that everything after it, auth failures
// included, can be correlated.
package middleware
