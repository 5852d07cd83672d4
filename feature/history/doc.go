// Package history keeps the archived checklist: one snapshot per task and day
// with a status column per operation code.
//
// Snapshots are keyed by date and task id, so saving the same day twice
// updates instead of duplicating. Archived days can also be exported to
// object storage as history/YYYY-MM-DD.json.
//
// # HTTP Endpoints
//
//   - GET /history?email= : snapshots, restricted to the user's operations.
//   - POST /history : save one snapshot.
//   - GET /history/exports : exported days.
//   - GET /history/exports/:date : one exported day.
package history
