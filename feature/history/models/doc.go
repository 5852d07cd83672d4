// Package models defines the checklist history snapshot.
package models
