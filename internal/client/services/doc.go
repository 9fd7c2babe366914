// Package services holds the application services of the LoveOps client:
// account sessions, remote sync of the backup document, and photo uploads.
package services
