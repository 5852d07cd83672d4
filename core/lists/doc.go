// Package lists names the logical lists the dashboard works with and maps
// them to the remote list identifiers configured for a deployment.
package lists
