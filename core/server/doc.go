// Package server holds the HTTP server configuration and the response helpers
// shared by feature handlers.
//
// Reads always answer 200 with a ReadResponse, flagging degraded results.
// Writes answer with the raw failure detail and a status derived from it, so
// operators can see remote permission and schema problems.
package server
