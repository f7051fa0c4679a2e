// Package services contains the application service layer. The analytics
// service owns the write side (running the pipeline and rebuilding the
// result cache) and the read side (the queries the HTTP transport
// exposes). Transports depend on this package, never on storage directly.
package services
