// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: assigns a request id (ray id) to every request, stores it in the
//     context for logger.WithRayID and echoes it in the X-Ray-ID header.
package middleware
