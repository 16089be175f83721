// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines the
// listen address, the API key protecting every route and the shutdown bound.
package server
