// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//   - RequestLog: Writes one structured zap line per request with the RayID,
//     status and latency.
//
// Both are registered globally by core/server before any feature is mounted.
package middleware
