// Package logger builds the zap logger used across the service.
//
// Level "debug" selects zap's development config, anything else the
// production one; Format picks json or console encoding. WithRayID tags a
// logger with the request's ray id so all entries of one request correlate.
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithRayID(log, c)
//	l.Warn("Read degraded", zap.Error(err))
package logger
