// Package utils provides loose value conversion for payloads decoded from the
// remote list store, where the same column may arrive as a JSON number, a
// numeric string or a boolean depending on how the list was configured.
//
// It also holds ErrInvalid, which handlers map to 400 responses.
package utils
