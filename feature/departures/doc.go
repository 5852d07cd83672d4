// Package departures tracks route departures: the scheduled start, the actual
// departure time and the gap between them, classified against a tolerance.
//
// Writes recompute the gap and fill a missing operation code from the route
// mappings list. Pasted reports are turned into departures by the parser
// package, or by the assist package when a language model is configured and
// the caller asks for it; the parser is always the fallback.
//
// # HTTP Endpoints
//
//   - GET /departures?live=
//   - GET /departures/unlinked
//   - GET /departures/routes
//   - PUT /departures
//   - PATCH /departures/:id
//   - DELETE /departures/:id
//   - POST /departures/:id/archive
//   - POST /departures/parse?assist=
//   - POST /departures/import?assist=
package departures
