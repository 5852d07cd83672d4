// Package checklist implements the daily status matrix: task definitions as
// rows, operation definitions as columns and one status cell per task,
// operation and day.
//
// # Reconciliation
//
// EnsureMatrix creates the missing cells of a day as pending. Existing cells
// are found by a day-window query on the reference date, since the store keeps
// date-times, and matched by the composite key date_taskId_operation. Cell
// creation runs with bounded concurrency; a failing cell is logged and counted
// and the next run retries it.
//
// # HTTP Endpoints
//
//   - GET /checklist/tasks
//   - GET /checklist/operations?email=
//   - GET /checklist/status?date=
//   - PUT /checklist/status
//   - POST /checklist/matrix?date=
package checklist
