// Package bundles exposes the ROM directory over HTTP.
//
// Routes:
//
//	GET  /bundles                       scan and list bundles
//	GET  /bundles/:name                 one bundle and its stamp
//	POST /bundles/reconcile?dry_run=1   reconcile against the reference databases
//
// Requests that touch the directory are serialized: a scan or reconcile holds the
// service lock until it completes.
package bundles
