// Package utils provides common utility functions for the rom-manager application.
// It includes helpers for path expansion and bundle naming that are shared by the
// index, the DAT lookup and the playlist builder.
package utils
