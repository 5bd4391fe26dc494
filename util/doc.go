// Package util provides small generic helpers shared across streambridge
// packages: pointer and zero-value helpers, map/slice lookups, and string
// formatting for logs and error messages.
package util
