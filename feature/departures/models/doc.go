// Package models defines the route departure records and their field tables.
package models
