// Package models defines the checklist records: task and operation
// definitions and the per-day status cells.
package models
