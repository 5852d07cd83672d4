// Package projection converts between remote list items and the fixed-shape
// records the dashboard works with.
//
// Each record variant declares a Table: its logical fields, their kinds and
// defaults. Decode reads a raw `fields` map through a schema binding and always
// yields a complete Values map, substituting the default for anything missing
// or malformed. Encode goes the other way and keeps only fields the bound list
// knows and allows to be written, so a list that lacks an optional column, or
// marks one read-only, never makes a write fail.
//
// ReadResult carries the outcome of read operations that degrade to an empty
// collection instead of failing, keeping the failure reason observable.
package projection
